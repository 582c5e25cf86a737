// Command osmxml converts OSM-flavored XML documents to and from their
// dictionary JSON form, and provides XPath queries and well-formedness
// checking.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/osmforge/osmxml/core/xml"
	"github.com/osmforge/osmxml/core/xmldict"
)

const version = "0.1.0"

// CLI defines the command-line interface for osmxml.
var CLI struct {
	Parse   ParseCmd   `cmd:"" help:"Convert an XML document to JSON"`
	Unparse UnparseCmd `cmd:"" help:"Convert a JSON document back to XML"`
	Query   QueryCmd   `cmd:"" help:"Run an XPath query against an XML document"`
	Check   CheckCmd   `cmd:"" help:"Check an XML document for well-formedness"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// readInput reads the named file, or stdin when no path is given.
func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// writeOutput writes to the named file, or stdout when no path is given.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ParseCmd converts an XML document to JSON.
type ParseCmd struct {
	Path    string `arg:"" optional:"" help:"Input XML file (default: stdin)"`
	Out     string `help:"Output file (default: stdout)" type:"path"`
	Indent  bool   `help:"Indent the JSON output"`
	MaxSize int    `help:"Maximum input size in bytes (0 disables the check)" default:"52428800"`
}

func (c *ParseCmd) Run() error {
	data, err := readInput(c.Path)
	if err != nil {
		return err
	}

	opts := xmldict.DefaultOptions()
	opts.MaxSize = c.MaxSize

	value, err := xmldict.ParseWithOptions(data, opts)
	if err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}

	var out []byte
	if c.Indent {
		out, err = json.MarshalIndent(value, "", "  ")
	} else {
		out, err = json.Marshal(value)
	}
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return writeOutput(c.Out, append(out, '\n'))
}

// UnparseCmd converts a JSON document back to XML.
type UnparseCmd struct {
	Path string `arg:"" optional:"" help:"Input JSON file (default: stdin)"`
	Out  string `help:"Output file (default: stdout)" type:"path"`
}

func (c *UnparseCmd) Run() error {
	data, err := readInput(c.Path)
	if err != nil {
		return err
	}

	var value xmldict.Value
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("failed to decode JSON: %w", err)
	}

	out, err := xmldict.UnparseBytes(&value)
	if err != nil {
		return fmt.Errorf("failed to unparse document: %w", err)
	}

	return writeOutput(c.Out, out)
}

// QueryCmd runs an XPath query against an XML document.
type QueryCmd struct {
	Expr  string `arg:"" help:"XPath expression"`
	Path  string `arg:"" optional:"" help:"Input XML file (default: stdin)"`
	Out   string `help:"Output file (default: stdout)" type:"path"`
	Text  bool   `help:"Print the text content of matches instead of XML"`
	First bool   `help:"Print only the first match"`
}

func (c *QueryCmd) Run() error {
	data, err := readInput(c.Path)
	if err != nil {
		return err
	}

	doc, err := xml.Parse(data)
	if err != nil {
		return err
	}

	var nodes []*xml.Node
	if c.First {
		node, err := doc.XPathFirst(c.Expr)
		if err != nil {
			return err
		}
		if node != nil {
			nodes = append(nodes, node)
		}
	} else {
		nodes, err = doc.XPath(c.Expr)
		if err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	for _, node := range nodes {
		if c.Text {
			buf.WriteString(node.InnerText())
		} else {
			buf.WriteString(node.OutputXML())
		}
		buf.WriteByte('\n')
	}

	return writeOutput(c.Out, buf.Bytes())
}

// CheckCmd checks an XML document for well-formedness.
type CheckCmd struct {
	Path string `arg:"" optional:"" help:"Input XML file (default: stdin)"`
}

func (c *CheckCmd) Run() error {
	data, err := readInput(c.Path)
	if err != nil {
		return err
	}

	if err := xml.Check(data); err != nil {
		return fmt.Errorf("document is not well-formed: %w", err)
	}

	fmt.Println("OK")
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("osmxml version %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("osmxml"),
		kong.Description("OSM XML to dictionary codec"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
