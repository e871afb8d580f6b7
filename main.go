package main

import "github.com/frahmantamala/geofence-security/cmd"

func main() {
	cmd.Execute()
}
