// Package report renders locator results for the CLI and the HTTP API.
package report

import (
	"github.com/samcharles93/machouuid/pkg/macho"
)

type Result struct {
	File             string   `json:"file,omitempty"`
	Status           string   `json:"status"`
	Kind             string   `json:"kind,omitempty"`
	Order            string   `json:"order,omitempty"`
	UUID             string   `json:"uuid,omitempty"`
	LoadCommandIndex *int     `json:"load_command_index,omitempty"`
	Size             int      `json:"size"`
	Fingerprint      string   `json:"fingerprint,omitempty"`
	MemberCount      int      `json:"member_count,omitempty"`
	MembersTruncated bool     `json:"members_truncated,omitempty"`
	Members          []Member `json:"members,omitempty"`
	Error            string   `json:"error,omitempty"`
}

type Member struct {
	CPU              string `json:"cpu"`
	CPUSubtype       uint32 `json:"cpu_subtype"`
	Offset           uint32 `json:"offset"`
	Size             uint32 `json:"size"`
	Align            uint32 `json:"align"`
	Kind             string `json:"kind"`
	Order            string `json:"order,omitempty"`
	Status           string `json:"status"`
	UUID             string `json:"uuid,omitempty"`
	LoadCommandIndex *int   `json:"load_command_index,omitempty"`
}

// Build converts a locator report. The UUID field follows Locate: the
// identifier on success, the sentinel on failure when failSafe is set, and
// empty otherwise.
func Build(rep *macho.Report, size int, failSafe bool) Result {
	res := Result{
		Status:           rep.Status.String(),
		Kind:             rep.Kind.String(),
		LoadCommandIndex: index(rep.LoadCmdIndex),
		Size:             size,
		MemberCount:      rep.MemberCount,
		MembersTruncated: len(rep.Members) < rep.MemberCount,
	}
	if rep.Kind != macho.KindUnrecognized {
		res.Order = rep.Order.String()
	}

	var text macho.Text
	if rep.WriteText(&text, failSafe) {
		res.UUID = text.String()
	}

	for _, m := range rep.Members {
		mr := Member{
			CPU:              m.CPU.String(),
			CPUSubtype:       m.CPUSubtype,
			Offset:           m.Offset,
			Size:             m.Size,
			Align:            m.Align,
			Kind:             m.Kind.String(),
			Status:           m.Status.String(),
			LoadCommandIndex: index(m.LoadCmdIndex),
		}
		if m.Kind != macho.KindUnrecognized {
			mr.Order = m.Order.String()
		}
		if m.Status == macho.StatusSuccess {
			mr.UUID = m.UUID.String()
		}
		res.Members = append(res.Members, mr)
	}
	return res
}

// Failed builds the result for an image whose scan was aborted.
func Failed(size int, err error) Result {
	return Result{
		Status: "malformed",
		Size:   size,
		Error:  err.Error(),
	}
}

func index(i int) *int {
	if i < 0 {
		return nil
	}
	return &i
}
