package script

import (
	"github.com/gomutex/godocx"

	"github.com/nguyentantai21042004/podcast-flow/internal/podcast"
)

const (
	fontName      = "Times New Roman"
	fontSize      = 13
	titleFontSize = 16
)

// WriteTranscript exports the dialogue as a styled docx document, kept
// next to the audio artifact for listeners who prefer reading.
func WriteTranscript(s *podcast.Script, title, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	doc.AddParagraph("").AddText(title).Font(fontName).Size(titleFontSize).Color("000000").Bold(true)
	doc.AddParagraph("")

	for _, turn := range s.Turns {
		p := doc.AddParagraph("")
		p.AddText(string(turn.Speaker) + ": ").Font(fontName).Size(fontSize).Color("000000").Bold(true)
		p.AddText(turn.Text).Font(fontName).Size(fontSize).Color("000000")
	}

	return doc.SaveTo(outputPath)
}
