package observability

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger. Level is a logrus level name
// ("debug", "info", ...); format is "json" or "text". Unknown values fall
// back to info-level JSON output.
func NewLogger(level, format string, output io.Writer) *logrus.Logger {
	log := logrus.New()
	if output == nil {
		output = os.Stdout
	}
	log.SetOutput(output)

	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)

	if strings.EqualFold(format, "text") {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log
}
