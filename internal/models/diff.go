package models

import "time"

// DiffBlob is one activity record: a git diff summary reported by a
// member's local agent for a project it is tracking.
type DiffBlob struct {
	RoomID      string       `json:"roomId"`
	MemberID    string       `json:"memberId"`
	ProjectName string       `json:"projectName"`
	OldHash     string       `json:"oldHash,omitempty"`
	NewHash     string       `json:"newHash,omitempty"`
	Timestamp   time.Time    `json:"timestamp"`
	Summary     DiffSummary  `json:"summary"`
	Changes     []FileChange `json:"changes,omitempty"`
}

type DiffSummary struct {
	FilesChanged int `json:"filesChanged"`
	Insertions   int `json:"insertions"`
	Deletions    int `json:"deletions"`
	Renames      int `json:"renames"`
	Copies       int `json:"copies"`
}

type FileChange struct {
	Action       string `json:"action"`
	OldPath      string `json:"oldPath,omitempty"`
	NewPath      string `json:"newPath,omitempty"`
	OldMode      string `json:"oldMode,omitempty"`
	NewMode      string `json:"newMode,omitempty"`
	HashBefore   string `json:"hashBefore,omitempty"`
	HashAfter    string `json:"hashAfter,omitempty"`
	LinesAdded   int    `json:"linesAdded"`
	LinesDeleted int    `json:"linesDeleted"`
	Patch        string `json:"patch,omitempty"`
}
