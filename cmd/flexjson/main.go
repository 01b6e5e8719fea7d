// Command flexjson decodes JSON documents leniently against record
// descriptions written in YAML.
//
//	flexjson decode --describe users.yaml --record User input.json
//	flexjson defaults --describe users.yaml --record User
//	flexjson schema --describe users.yaml --record User
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
