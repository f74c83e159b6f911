package logutils

import (
	"github.com/go-logr/logr"
	"k8s.io/klog/v2"
)

// Log is the structured logger shared by the siteadmin packages. Output goes
// through klog, so verbosity follows the -v flag.
var Log logr.Logger = klog.NewKlogr().WithName("siteadmin")

// Named returns a child of Log for one component.
func Named(name string) logr.Logger {
	return Log.WithName(name)
}
