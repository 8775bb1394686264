package jarhell

import (
	"fmt"
	"io"
	"strings"

	"github.com/miivari/jaraudit/internal/domain"
)

// Payload framing. Both markers must be present for the output to count as a
// structured result; anything else means the worker crashed mid-flight.
const (
	payloadBegin = "-- jarhell worker output --"
	payloadEnd   = "-- end jarhell worker output --"

	collisionPrefix = "collision:"
)

// WritePayload emits the framed worker result.
func WritePayload(w io.Writer, collisions []domain.CollisionEntry) {
	fmt.Fprintln(w, payloadBegin)
	for _, c := range collisions {
		fmt.Fprintf(w, "%s%s=%s\n", collisionPrefix, c.Class, c.Archive)
	}
	fmt.Fprintln(w, payloadEnd)
}

// ParsePayload extracts collision entries from worker output. ok is false
// when the framing is absent or a line between the markers is unparsable.
func ParsePayload(out string) (collisions []domain.CollisionEntry, ok bool) {
	lines := strings.Split(out, "\n")
	begin := -1
	end := -1
	for i, line := range lines {
		switch strings.TrimSpace(line) {
		case payloadBegin:
			begin = i
		case payloadEnd:
			end = i
		}
	}
	if begin < 0 || end < begin {
		return nil, false
	}

	for _, line := range lines[begin+1 : end] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, collisionPrefix) {
			return nil, false
		}
		entry := strings.TrimPrefix(line, collisionPrefix)
		class, archive, found := strings.Cut(entry, "=")
		if !found || class == "" {
			return nil, false
		}
		collisions = append(collisions, domain.CollisionEntry{Class: class, Archive: archive})
	}
	return collisions, true
}
