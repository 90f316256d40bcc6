package cpiofs

import "github.com/sirupsen/logrus"

// defaultLogger is shared by Reader, Writer, and Filesystem when no
// WithReaderLogger/WithWriterLogger/WithLogger option overrides it.
func defaultLogger() logrus.FieldLogger {
	return logrus.StandardLogger()
}
