// The piboardd command runs the PiBoard kiosk display client: it pairs the
// device with an owning account and keeps the local playlist in sync with
// the remote content repository.
package main

import "github.com/Am0lShah/Display-Output/internal/piboardd/cmd"

func main() {
	cmd.Execute()
}
