package deploy

import (
	"sort"
	"strings"

	clientdist "github.com/vango-dev/starter/client/dist"
)

// ClientAssets returns the embedded client files laid out the way the app
// serves them, so that "_starter/client.js" under the key prefix mirrors
// "{base}/_starter/client.js".
func ClientAssets() []Asset {
	names := make([]string, 0, len(clientdist.Files))
	for name := range clientdist.Files {
		names = append(names, name)
	}
	sort.Strings(names)

	assets := make([]Asset, 0, len(names))
	for _, name := range names {
		served := name
		if name == "starter.js" {
			served = "client.js"
		}
		assets = append(assets, Asset{
			Name: "_starter/" + strings.TrimPrefix(served, "/"),
			Body: clientdist.Files[name],
		})
	}
	return assets
}
