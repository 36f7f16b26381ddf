package cli

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cybertec-postgresql/sqlpreparse/pkg/preparser"
)

// RewriteOutput is the machine-readable result of Rewrite
type RewriteOutput struct {
	Text          string                  `json:"text"`
	Type          preparser.StatementType `json:"type"`
	ParamInfo     string                  `json:"param_info"`
	CacheOnServer bool                    `json:"cache_on_server"`
	Parameters    []RewriteParameter      `json:"parameters"`
}

// RewriteParameter describes one parameter of a rewritten statement
type RewriteParameter struct {
	Name  string `json:"name,omitempty"`
	Mode  string `json:"mode"`
	Cast  string `json:"cast"`
	Value string `json:"value"`
}

// Rewrite pre-parses a single statement and prints the result
func Rewrite(w io.Writer, config *Config, query, format string) error {
	pp := preparser.New(config.Options)
	params := preparser.NewParameterList()
	res, err := pp.PreParse(query, params)
	if err != nil {
		return fmt.Errorf("failed to pre-parse statement: %w", err)
	}

	out := RewriteOutput{
		Text:          res.Text,
		Type:          res.Type,
		ParamInfo:     pp.ParamInfo().String(),
		CacheOnServer: pp.CacheOnServer(),
		Parameters:    make([]RewriteParameter, 0, params.Len()),
	}
	for _, p := range params.Params() {
		out.Parameters = append(out.Parameters, RewriteParameter{
			Name:  p.Name,
			Mode:  p.Mode.String(),
			Cast:  p.Cast.String(),
			Value: formatValue(p.Value),
		})
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "text", "":
		return writeRewriteText(w, out)
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json)", format)
	}
}

func writeRewriteText(w io.Writer, out RewriteOutput) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", out.Text)
	fmt.Fprintf(&b, "Type:            %s\n", out.Type)
	fmt.Fprintf(&b, "ParamInfo:       %s\n", out.ParamInfo)
	fmt.Fprintf(&b, "Cache on server: %v\n", out.CacheOnServer)
	if len(out.Parameters) > 0 {
		b.WriteString("Parameters:\n")
		for i, p := range out.Parameters {
			name := p.Name
			if name == "" {
				name = "-"
			}
			fmt.Fprintf(&b, "  %d  %-10s %-16s %-5s %s\n", i+1, name, p.Mode, p.Cast, p.Value)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return "0x" + strings.ToUpper(hex.EncodeToString(v))
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	default:
		return fmt.Sprint(v)
	}
}
