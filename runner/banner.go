package runner

import (
	"github.com/projectdiscovery/gologger"
)

const banner = `
                    __  _     
   _____ ___  ____ / /_(_)  __
  / ___// _ \/ __ \/ __/ / |/_/
 (__  )/  __/ / / / /_/ />  <  
/____/ \___/_/ /_/\__/_/_/|_|  
`

// Version is the current version of sentix
const Version = `v0.1.0`

// showBanner is used to show the banner to the user
func showBanner() {
	gologger.Print().Msgf("%s\n", banner)
	gologger.Print().Msgf("\t\tprojectdiscovery.io\n\n")
}
