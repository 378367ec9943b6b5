package domain

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// InvalidLink is an external reference that failed host validation.
type InvalidLink struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Link string `json:"link"`
}

// MissingThumbnail is a node whose thumbnail file could not be found.
type MissingThumbnail struct {
	Path      string `json:"path"`
	Thumbnail string `json:"thumbnail"`
}

// Issues accumulates the non-fatal findings of a single run.
// Every stage appends; nothing is ever removed.
type Issues struct {
	Warnings          []string
	Errors            []string
	InvalidLinks      []InvalidLink
	MissingThumbnails []MissingThumbnail
}

func NewIssues() *Issues {
	return &Issues{
		Warnings:          make([]string, 0),
		Errors:            make([]string, 0),
		InvalidLinks:      make([]InvalidLink, 0),
		MissingThumbnails: make([]MissingThumbnail, 0),
	}
}

func (i *Issues) Warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	i.Warnings = append(i.Warnings, msg)
	log.Warnf("⚠️ %s", msg)
}

func (i *Issues) Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	i.Errors = append(i.Errors, msg)
	log.Errorf("❌ %s", msg)
}

func (i *Issues) AddInvalidLink(link InvalidLink) {
	i.InvalidLinks = append(i.InvalidLinks, link)
	log.Debugf("Invalid link at %s: %s", link.Path, link.Link)
}

func (i *Issues) AddMissingThumbnails(found ...MissingThumbnail) {
	i.MissingThumbnails = append(i.MissingThumbnails, found...)
}
