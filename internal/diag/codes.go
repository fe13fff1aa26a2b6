package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// Markdown parsing fallbacks.
	DocInfo              Code = 1000
	DocUnterminatedFence Code = 1001
	DocUnmatchedLink     Code = 1002
	DocUnknownAdmonition Code = 1003
	DocHeadingTooDeep    Code = 1004
	DocUnmatchedCode     Code = 1005

	// Rendering.
	RenInfo         Code = 2000
	RenOverlongWord Code = 2001
	RenEmptyBrief   Code = 2002

	// Attribute registry input.
	AtrInfo        Code = 3000
	AtrDuplicateID Code = 3001
	AtrMissingID   Code = 3002
)

var codeDescription = map[Code]string{
	UnknownCode:          "Unknown error",
	DocInfo:              "Markdown information",
	DocUnterminatedFence: "Unterminated code fence",
	DocUnmatchedLink:     "Unmatched link brackets",
	DocUnknownAdmonition: "Unknown admonition kind",
	DocHeadingTooDeep:    "Heading deeper than six levels",
	DocUnmatchedCode:     "Unmatched backtick run",
	RenInfo:              "Render information",
	RenOverlongWord:      "Word longer than the line budget",
	RenEmptyBrief:        "Empty brief",
	AtrInfo:              "Registry information",
	AtrDuplicateID:       "Duplicate attribute id",
	AtrMissingID:         "Attribute without id",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("DOC%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("REN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("ATR%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
