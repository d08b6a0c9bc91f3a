package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Содержимое документа
	MdInfo               Code = 1000
	MdBadTableLayout     Code = 1001
	MdImageMissingAlt    Code = 1002
	MdDuplicateReference Code = 1003
	MdUnusedMetadata     Code = 1004
	MdUnknownCustomBlock Code = 1005
	MdEmptyCaption       Code = 1006
	MdMissingCaption     Code = 1007
	MdUnresolvedResource Code = 1008

	// Расширения
	ExtInfo                  Code = 2000
	ExtBadFrontMatter        Code = 2001
	ExtUnknownFrontMatterKey Code = 2002
	ExtBadCodeOptions        Code = 2003
	ExtHighlightFailed       Code = 2004
	ExtEmbedUnavailable      Code = 2005

	// Ввод-вывод сборки
	IOInfo        Code = 3000
	IOReadFailed  Code = 3001
	IOWriteFailed Code = 3002
	IOCacheFailed Code = 3003
)

var codeDescription = map[Code]string{
	UnknownCode:              "Unknown error",
	MdInfo:                   "Document information",
	MdBadTableLayout:         "Malformed table layout",
	MdImageMissingAlt:        "Image without alt text",
	MdDuplicateReference:     "Duplicate reference declaration",
	MdUnusedMetadata:         "Metadata block not attached",
	MdUnknownCustomBlock:     "Unknown custom block",
	MdEmptyCaption:           "Caption without text",
	MdMissingCaption:         "Figure without caption",
	MdUnresolvedResource:     "Unresolved resource",
	ExtInfo:                  "Extension information",
	ExtBadFrontMatter:        "Invalid front matter",
	ExtUnknownFrontMatterKey: "Unknown front matter key",
	ExtBadCodeOptions:        "Invalid code block options",
	ExtHighlightFailed:       "Highlighting failed",
	ExtEmbedUnavailable:      "Embedded document unavailable",
	IOInfo:                   "Build information",
	IOReadFailed:             "Read failed",
	IOWriteFailed:            "Write failed",
	IOCacheFailed:            "Cache access failed",
}

func (c Code) ID() string {
	ic := int(c)
	switch {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("MD%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("EXT%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("IO%04d", ic)
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
