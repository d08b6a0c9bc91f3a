package token

// Kind tags the type of a token.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindDocument
	KindHeading
	KindCode
	KindContainerBox
	KindQuote
	KindParagraph
	KindText
	KindEscapedText
	KindInlineCode
	KindStyledText
	KindLink
	KindImage
	KindReference
	KindCustomBlock
	KindItemizedItem
	KindEnumerationItem
	KindList
	KindTable
	KindTableRow
	KindTableHeaderRow
	KindTableCell
	KindTableHeaderCell
	KindTableHeaderDivision
	KindTableRowDivision
	KindHardDivision
	KindSoftDivision
	// KindExtension tags tokens defined by extensions.
	KindExtension
)

var kindNames = [...]string{
	KindInvalid:             "Invalid",
	KindDocument:            "Document",
	KindHeading:             "Heading",
	KindCode:                "Code",
	KindContainerBox:        "ContainerBox",
	KindQuote:               "Quote",
	KindParagraph:           "Paragraph",
	KindText:                "Text",
	KindEscapedText:         "EscapedText",
	KindInlineCode:          "InlineCode",
	KindStyledText:          "StyledText",
	KindLink:                "Link",
	KindImage:               "Image",
	KindReference:           "Reference",
	KindCustomBlock:         "CustomBlock",
	KindItemizedItem:        "ItemizedItem",
	KindEnumerationItem:     "EnumerationItem",
	KindList:                "List",
	KindTable:               "Table",
	KindTableRow:            "TableRow",
	KindTableHeaderRow:      "TableHeaderRow",
	KindTableCell:           "TableCell",
	KindTableHeaderCell:     "TableHeaderCell",
	KindTableHeaderDivision: "TableHeaderDivision",
	KindTableRowDivision:    "TableRowDivision",
	KindHardDivision:        "HardDivision",
	KindSoftDivision:        "SoftDivision",
	KindExtension:           "Extension",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Invalid"
}

// IsDivision reports whether the kind is a zero-width division marker.
func (k Kind) IsDivision() bool {
	switch k {
	case KindHardDivision, KindSoftDivision, KindTableRowDivision, KindTableHeaderDivision:
		return true
	}
	return false
}

// IsListItem reports whether the kind is one of the list item kinds.
func (k Kind) IsListItem() bool {
	return k == KindItemizedItem || k == KindEnumerationItem
}
