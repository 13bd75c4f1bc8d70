package document

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Missing is reported for metadata fields the document does not set.
const Missing = "Brak"

// Info is the descriptive metadata of a PDF.
type Info struct {
	Title        string `json:"title" yaml:"title"`
	Author       string `json:"author" yaml:"author"`
	Subject      string `json:"subject" yaml:"subject"`
	Creator      string `json:"creator" yaml:"creator"`
	Producer     string `json:"producer" yaml:"producer"`
	CreationDate string `json:"creation_date" yaml:"creation_date"`
	ModDate      string `json:"modification_date" yaml:"modification_date"`
	Pages        int    `json:"pages" yaml:"pages"`
	Encrypted    bool   `json:"encrypted" yaml:"encrypted"`
}

// Inspect reads the document metadata. pdfcpu is tried first; documents it
// rejects fall back to the renderer's metadata dictionary.
func (d *Document) Inspect(logger *slog.Logger) *Info {
	if logger == nil {
		logger = slog.Default()
	}

	info, err := inspectPDF(d.data)
	if err != nil {
		logger.Debug("pdfcpu metadata read failed, using renderer metadata", "file", d.name, "error", err)
		info = d.rendererInfo()
	}
	info.Pages = d.pages
	info.fillMissing()
	return info
}

func inspectPDF(data []byte) (*Info, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf: %w", err)
	}

	return &Info{
		Title:        ctx.Title,
		Author:       ctx.Author,
		Subject:      ctx.Subject,
		Creator:      ctx.Creator,
		Producer:     ctx.Producer,
		CreationDate: ctx.XRefTable.CreationDate,
		ModDate:      ctx.ModDate,
		Pages:        ctx.PageCount,
		Encrypted:    ctx.Encrypt != nil,
	}, nil
}

func (d *Document) rendererInfo() *Info {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.doc == nil {
		return &Info{}
	}

	m := d.doc.Metadata()
	return &Info{
		Title:        m["title"],
		Author:       m["author"],
		Subject:      m["subject"],
		Creator:      m["creator"],
		Producer:     m["producer"],
		CreationDate: m["creationDate"],
		ModDate:      m["modDate"],
		Encrypted:    m["encryption"] != "" && m["encryption"] != "None",
	}
}

func (i *Info) fillMissing() {
	for _, f := range []*string{
		&i.Title, &i.Author, &i.Subject, &i.Creator,
		&i.Producer, &i.CreationDate, &i.ModDate,
	} {
		if *f == "" {
			*f = Missing
		}
	}
}
