package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	goerrors "github.com/gruntwork-io/go-commons/errors"
	"github.com/gruntwork-io/go-commons/files"
	"github.com/robmorgan/metronizer/logger"
	"github.com/sirupsen/logrus"
)

// AllowedExtensions lists the file extensions accepted for project files.
var AllowedExtensions = []string{".txt", ".met"}

// HasAllowedExtension reports whether path ends in one of AllowedExtensions, ignoring case.
func HasAllowedExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Load reads and parses a project file. Malformed lines are logged and skipped, and returned as
// ParseErrors next to the partially loaded project.
func Load(path string) (Project, error) {
	if !HasAllowedExtension(path) {
		return Project{}, fmt.Errorf("%s: unsupported project file extension, want one of %v", path, AllowedExtensions)
	}
	if !files.FileExists(path) {
		return Project{}, goerrors.WithStackTrace(fmt.Errorf("project file %s does not exist", path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Project{}, goerrors.WithStackTrace(err)
	}

	p, err := Parse(string(data))
	var parseErrs ParseErrors
	if errors.As(err, &parseErrs) {
		log := logger.GetProjectLogger()
		for _, perr := range parseErrs {
			log.WithFields(logrus.Fields{"path": path, "line": perr.Line, "field": perr.Field}).
				Warnf("Skipping malformed project line: %v", perr.Err)
		}
	}
	return p, err
}

// Save writes a project file with CRLF line endings.
func Save(path string, p Project) error {
	if err := os.WriteFile(path, []byte(Format(p)), 0o644); err != nil {
		return goerrors.WithStackTrace(err)
	}
	logger.GetProjectLogger().WithFields(logrus.Fields{
		"path":     path,
		"sections": len(p.Sections),
		"comments": len(p.Comments),
	}).Info("Saved project")
	return nil
}
