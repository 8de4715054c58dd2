// Package render hands an assembled dot document to its output sink:
// stdout, a raw file, or the external graphviz renderer for pdf/png
// targets. Sink failures are reported to the caller; the document
// itself is never lost.
package render

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "render")

// Output writes the document to the sink selected by the path
// extension. An empty path writes to stdout.
func Output(doc, path string) error {
	if path == "" {
		_, err := os.Stdout.WriteString(doc + "\n")
		return errors.Wrap(err, "could not write to stdout")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return renderDot(doc, path, "pdf")
	case ".png":
		return renderDot(doc, path, "png")
	default:
		if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
			return errors.Wrapf(err, "could not write %s", path)
		}
		return nil
	}
}

// renderDot pipes the document through the graphviz dot binary.
func renderDot(doc, outputFile, outputFormat string) error {
	cmd := exec.Command("dot", "-T"+outputFormat, "-o"+outputFile)
	cmd.Stdin = strings.NewReader(doc)
	out, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			log.WithField("output", strings.TrimSpace(string(out))).Error("dot renderer failed")
			return errors.Errorf("dot failed with error %d", exitErr.ExitCode())
		}
		return errors.Wrap(err, "failed to spawn dot")
	}
	return nil
}
