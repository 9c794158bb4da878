package pipeline

import (
	"fmt"
	"unicode"

	"github.com/ppiankov/shartnoma/internal/model"
)

// GibberishRatio is the share of non-space runes that are neither letters,
// digits nor punctuation. OCR noise and mis-decoded text score high.
func GibberishRatio(text string) float64 {
	var total, junk int
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsPunct(r) {
			junk++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(junk) / float64(total)
}

// QualityIssue flags text whose source confidence or gibberish ratio is out
// of the configured bounds. The document is still analyzed.
func QualityIssue(text string, info model.SourceInfo, cfg model.OCRConfig) (model.ComplianceIssue, bool) {
	ratio := GibberishRatio(text)
	lowConfidence := info.Confidence < cfg.QualityMin
	noisy := cfg.GibberishMax > 0 && ratio > cfg.GibberishMax
	if !lowConfidence && !noisy {
		return model.ComplianceIssue{}, false
	}

	desc := fmt.Sprintf("Matnni aniqlash ishonchliligi %.0f%%, tanib bo'lmaydigan belgilar ulushi %.0f%%.",
		info.Confidence*100, ratio*100)
	if info.IsScanned {
		desc += " Hujjat skanerlangan nusxadan olingan."
	}
	return model.ComplianceIssue{
		Type:        model.IssueStructural,
		Severity:    model.SeverityMedium,
		Title:       "Matn sifati past",
		Description: desc,
		Suggestion:  "Hujjatning sifatliroq nusxasini yuklang; tahlil natijalari to'liq bo'lmasligi mumkin",
	}, true
}
