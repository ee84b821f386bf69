package report

import (
	"bytes"
	"fmt"

	"github.com/signintech/gopdf"
)

var fontPaths = []string{
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

// RenderPDF produces a printable version of a health report.
func RenderPDF(rpt *HealthReport) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	var fontErr error
	fontLoaded := false
	for _, path := range fontPaths {
		if err := pdf.AddTTFFont("DejaVu", path); err == nil {
			fontLoaded = true
			break
		} else {
			fontErr = err
		}
	}
	if !fontLoaded {
		return nil, fmt.Errorf("failed to load font for PDF, ensure ttf-dejavu is installed: %w", fontErr)
	}

	if err := pdf.SetFont("DejaVu", "", 20); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "Health Report")
	pdf.Br(30)

	if err := pdf.SetFont("DejaVu", "", 12); err != nil {
		return nil, err
	}
	pdf.Cell(nil, fmt.Sprintf("Report ID: %s", rpt.ReportID))
	pdf.Br(15)
	pdf.Cell(nil, fmt.Sprintf("Generated: %s", rpt.ReportGeneratedAt.Format("02.01.2006 15:04")))
	pdf.Br(15)
	pdf.Cell(nil, fmt.Sprintf("Patient: %s (%s, %s)", rpt.PatientInfo.Name, rpt.PatientInfo.Age, rpt.PatientInfo.Gender))
	pdf.Br(15)
	pdf.Cell(nil, fmt.Sprintf("Blood Type: %s | Allergies: %s", rpt.MedicalInfo.BloodType, rpt.MedicalInfo.Allergies))
	pdf.Br(25)

	if err := pdf.SetFont("DejaVu", "", 14); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "Reported Symptoms:")
	pdf.Br(15)

	if err := pdf.SetFont("DejaVu", "", 11); err != nil {
		return nil, err
	}
	if len(rpt.SymptomAnalysis.Symptoms) == 0 {
		pdf.Cell(nil, "- No symptoms recorded.")
		pdf.Br(15)
	}
	for _, s := range rpt.SymptomAnalysis.Symptoms {
		pdf.Cell(nil, fmt.Sprintf("- %s", s))
		pdf.Br(12)
	}
	pdf.Br(15)

	if err := pdf.SetFont("DejaVu", "", 14); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "Possible Ailments:")
	pdf.Br(15)

	if err := pdf.SetFont("DejaVu", "", 11); err != nil {
		return nil, err
	}
	if len(rpt.AIAnalysis.PossibleAilments) == 0 {
		pdf.Cell(nil, "- No ailments identified.")
		pdf.Br(15)
	}
	for _, a := range rpt.AIAnalysis.PossibleAilments {
		line := fmt.Sprintf("- %s (confidence: %s): %s", a.Name, a.Confidence, a.Description)
		lines, _ := pdf.SplitText(line, 500)
		for _, l := range lines {
			pdf.Cell(nil, l)
			pdf.Br(12)
		}
		pdf.Br(5)
	}
	pdf.Br(15)

	if len(rpt.AIAnalysis.Recommendations) > 0 {
		if err := pdf.SetFont("DejaVu", "", 14); err != nil {
			return nil, err
		}
		pdf.Cell(nil, "Recommendations:")
		pdf.Br(15)
		if err := pdf.SetFont("DejaVu", "", 11); err != nil {
			return nil, err
		}
		for _, rec := range rpt.AIAnalysis.Recommendations {
			lines, _ := pdf.SplitText("- "+rec, 500)
			for _, l := range lines {
				pdf.Cell(nil, l)
				pdf.Br(12)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}
