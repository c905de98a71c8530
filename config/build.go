// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"runtime/debug"
	"strings"
)

// BuildVersion is the latest tagged release of locsync.
const BuildVersion string = "v0.4.0"

const shortRevision = 8

type buildInfo struct {
	VcsRevision string
	VcsTime     string
	VcsModified bool
}

// Revision returns "<commit date>-<short hash>", suffixed with "+dirty" for
// builds from a modified tree.
func (b *buildInfo) Revision() string {
	if len(b.VcsRevision) < shortRevision {
		return "unknown"
	}

	s := strings.Split(b.VcsTime, "T")[0] + "-" + b.VcsRevision[:shortRevision]
	if b.VcsModified {
		s += "+dirty"
	}

	return s
}

func (b *buildInfo) load() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	for _, kv := range info.Settings {
		switch kv.Key {
		case "vcs.revision":
			b.VcsRevision = kv.Value
		case "vcs.time":
			b.VcsTime = kv.Value
		case "vcs.modified":
			b.VcsModified = kv.Value == "true"
		}
	}
}

// Version returns the release and the revision of the running binary.
func Version() string {
	var b buildInfo
	b.load()

	return BuildVersion + " (" + b.Revision() + ")"
}
