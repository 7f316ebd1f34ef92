package hcl

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/vk/stockflow/internal/config"
	"github.com/vk/stockflow/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// Encoder writes models as HCL `model` blocks. It implements config.Encoder.
type Encoder struct{}

// NewEncoder creates a new HCL encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Encode writes all models to w as a single HCL document.
func (e *Encoder) Encode(ctx context.Context, w io.Writer, models ...*config.Model) error {
	file := hclwrite.NewEmptyFile()
	body := file.Body()

	for i, m := range models {
		if i > 0 {
			body.AppendNewline()
		}
		if err := encodeModel(body, m); err != nil {
			return fmt.Errorf("encoding model %q: %w", m.Name, err)
		}
	}

	n, err := file.WriteTo(w)
	if err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("Encoded models as HCL.", "models", len(models), "bytes", n)
	return nil
}

func encodeModel(parent *hclwrite.Body, m *config.Model) error {
	body := parent.AppendNewBlock("model", []string{m.Name}).Body()
	if m.Rounds != nil {
		if err := setValue(body, "rounds", *m.Rounds); err != nil {
			return err
		}
	}

	for _, s := range m.Stocks {
		sb := body.AppendNewBlock("stock", []string{s.Name}).Body()
		if s.Infinite {
			sb.SetAttributeValue("infinite", cty.True)
		}
		setFormula(sb, "initial", s.Initial)
		setFormula(sb, "maximum", s.Maximum)
		if s.Show != nil {
			if err := setValue(sb, "show", *s.Show); err != nil {
				return err
			}
		}
	}

	for _, f := range m.Flows {
		fb := body.AppendNewBlock("flow", []string{f.Kind}).Body()
		if err := setValue(fb, "from", f.From); err != nil {
			return err
		}
		if err := setValue(fb, "to", f.To); err != nil {
			return err
		}
		setFormula(fb, "rate", f.Rate)
	}
	return nil
}

func setValue(body *hclwrite.Body, name string, v any) error {
	val, err := toCtyValue(v)
	if err != nil {
		return fmt.Errorf("attribute %q: %w", name, err)
	}
	body.SetAttributeValue(name, val)
	return nil
}

// setFormula writes finite literals as numbers and everything else as a
// formula string, which decodeFormula reads back unchanged.
func setFormula(body *hclwrite.Body, name string, f config.Formula) {
	switch {
	case f.IsZero():
		return
	case f.Literal != nil && !math.IsInf(*f.Literal, 0) && !math.IsNaN(*f.Literal):
		body.SetAttributeValue(name, cty.NumberFloatVal(*f.Literal))
	case f.Literal != nil:
		body.SetAttributeValue(name, cty.StringVal(strconv.FormatFloat(*f.Literal, 'f', -1, 64)))
	default:
		body.SetAttributeValue(name, cty.StringVal(f.Source))
	}
}
