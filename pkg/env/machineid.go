package env

import (
	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// MachineID retrieves an ID identifying the machine, hashed for the
// application so the raw ID isn't exposed in topics.
func MachineID() string {
	id, err := machineid.ProtectedID("hif")
	if err != nil {
		glog.Warningf("machine id: %v", err)
		return "hif"
	}
	if len(id) > 12 {
		id = id[:12]
	}
	return id
}
