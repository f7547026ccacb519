package env

import (
	"github.com/denisbrodbeck/machineid"
)

// MachineID returns an ID of this machine derived for the console, so the
// raw machine ID is never published.
func MachineID() string {
	id, err := machineid.ProtectedID("uartcon")
	if err != nil {
		panic(err)
	}
	return id
}
