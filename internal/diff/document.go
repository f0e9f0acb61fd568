package diff

// PlaceholderText is the content of the single row of an empty document.
const PlaceholderText = "@@ No changes detected or binary file @@"

// RowKind is how a display row is rendered.
type RowKind int

const (
	RowContext RowKind = iota
	RowHeader
	RowAdded
	RowRemoved
	RowEndOfFile
)

func (k RowKind) String() string {
	switch k {
	case RowHeader:
		return "header"
	case RowAdded:
		return "added"
	case RowRemoved:
		return "removed"
	case RowEndOfFile:
		return "eof"
	default:
		return "context"
	}
}

// LineNumber is a line number that may be absent.
type LineNumber struct {
	N     int
	Valid bool
}

// At returns a present line number.
func At(n int) LineNumber {
	return LineNumber{N: n, Valid: true}
}

// DisplayRow is one renderable line of a document.
type DisplayRow struct {
	OldLine LineNumber
	NewLine LineNumber
	Kind    RowKind
	Content string
}

// Document is the rendered form of one file diff. Rows are in source order.
type Document struct {
	Rows      []DisplayRow
	Empty     bool
	ImagePath string // set when a binary image can be previewed

	// Malformed counts hunks whose header could not be parsed; their lines
	// were rendered without line numbers.
	Malformed int
}

// Placeholder returns the canonical "no changes / binary" document.
func Placeholder(imagePath string) Document {
	return Document{
		Rows:      []DisplayRow{{Kind: RowHeader, Content: PlaceholderText}},
		Empty:     true,
		ImagePath: imagePath,
	}
}

// Stats summarizes a document for the status bar.
type Stats struct {
	Added   int
	Removed int
	Hunks   int
}

// Stats counts added, removed and header rows.
func (d Document) Stats() Stats {
	var s Stats
	if d.Empty {
		return s
	}
	for _, r := range d.Rows {
		switch r.Kind {
		case RowAdded:
			s.Added++
		case RowRemoved:
			s.Removed++
		case RowHeader:
			s.Hunks++
		}
	}
	return s
}

// Build turns classified lines into display rows. Lines before the first hunk
// header carry no position and are skipped. An empty input yields the
// placeholder document.
func Build(lines []Line) Document {
	var (
		doc        Document
		oldN, newN int
		// unannotated is set while inside a hunk whose header failed to parse
		unannotated bool
		inHunk      bool
	)

	for _, l := range lines {
		if l.Kind == KindHunkHeader {
			inHunk = true
			h, err := ParseHunkHeader(l.Text)
			if err != nil {
				unannotated = true
				doc.Malformed++
				doc.Rows = append(doc.Rows, DisplayRow{Kind: RowHeader, Content: l.Text})
				continue
			}
			unannotated = false
			oldN, newN = h.OldStart, h.NewStart
			doc.Rows = append(doc.Rows, DisplayRow{Kind: RowHeader, Content: h.String()})
			continue
		}
		if !inHunk {
			continue
		}
		if unannotated {
			doc.Rows = append(doc.Rows, DisplayRow{Kind: RowContext, Content: rawText(l)})
			continue
		}

		switch l.Kind {
		case KindAddition:
			doc.Rows = append(doc.Rows, DisplayRow{NewLine: At(newN), Kind: RowAdded, Content: l.Text})
			newN++
		case KindDeletion:
			doc.Rows = append(doc.Rows, DisplayRow{OldLine: At(oldN), Kind: RowRemoved, Content: l.Text})
			oldN++
		case KindNoNewline:
			doc.Rows = append(doc.Rows, DisplayRow{Kind: RowEndOfFile, Content: l.Text})
		default:
			doc.Rows = append(doc.Rows, DisplayRow{OldLine: At(oldN), NewLine: At(newN), Kind: RowContext, Content: l.Text})
			oldN++
			newN++
		}
	}

	if len(doc.Rows) == 0 {
		return Placeholder("")
	}
	return doc
}

// rawText restores the marker stripped by Classify.
func rawText(l Line) string {
	switch l.Kind {
	case KindAddition:
		return "+" + l.Text
	case KindDeletion:
		return "-" + l.Text
	default:
		return l.Text
	}
}
