package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Library is the set of library-wide constants shared by every batch. It is built
// once at start-up and passed by value.
type Library struct {
	AppName       string
	FamilyName    string
	Copyright     string
	filesToDelete map[string]struct{}
}

var extensionWhitelist = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".mp4":  {},
}

var extensionConversions = map[string]string{
	".jpeg": ".jpg",
}

func NewLibrary(appName, familyLastName string, filesToDelete []string) Library {
	family := fmt.Sprintf("%s Family", familyLastName)
	lib := Library{
		AppName:       appName,
		FamilyName:    family,
		Copyright:     fmt.Sprintf("%s Photos", family),
		filesToDelete: make(map[string]struct{}, len(filesToDelete)),
	}
	for _, name := range filesToDelete {
		lib.filesToDelete[name] = struct{}{}
	}
	return lib
}

func (l Library) ShouldDelete(fileName string) bool {
	_, ok := l.filesToDelete[fileName]
	return ok
}

// Allowed reports whether ext (compared case-insensitively) is a supported media extension.
func (l Library) Allowed(ext string) bool {
	_, ok := extensionWhitelist[strings.ToLower(ext)]
	return ok
}

// NormalizeExt returns the canonical spelling of ext: lower case, with aliases applied.
func (l Library) NormalizeExt(ext string) string {
	lower := strings.ToLower(ext)
	if conv, ok := extensionConversions[lower]; ok {
		return conv
	}
	return lower
}

// EndingEarly is the trailer emitted after a fatal error.
func (l Library) EndingEarly() string {
	return fmt.Sprintf("%s ending early", l.AppName)
}

func (l Library) Completed() string {
	return fmt.Sprintf("%s completed successfully.", l.AppName)
}

// Mount maps a directory between the path this process uses and the path users see.
type Mount struct {
	Internal string
	External string
}

func (m Mount) ToInternal(path string) string {
	return replacePrefix(path, m.External, m.Internal)
}

func (m Mount) ToExternal(path string) string {
	return replacePrefix(path, m.Internal, m.External)
}

func replacePrefix(path, from, to string) string {
	if from == "" || to == "" || from == to {
		return path
	}
	if path == from {
		return to
	}
	prefix := strings.TrimSuffix(from, string(filepath.Separator)) + string(filepath.Separator)
	if strings.HasPrefix(path, prefix) {
		return filepath.Join(to, strings.TrimPrefix(path, prefix))
	}
	return path
}
