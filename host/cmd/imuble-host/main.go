// imuble-host runs the sensor demo on a Linux board and follows the
// telemetry of a firmware build over USB.
package main

import (
	"os"
)

func main() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
