package topper

import (
	"os"

	"github.com/sirupsen/logrus"
)

// log is the package-level structured logger shared by server.go and
// connection.go. The original uses glog-style LOG(INFO)/VLOG(n) macros
// (original_source/src/server_instance.cc, resource_matcher.cc); logrus
// fields stand in for glog's verbosity levels, with Info for lifecycle
// events and Warn for recovered per-connection failures.
var log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.Out = os.Stderr
	l.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	l.Level = logrus.InfoLevel
	return l
}
