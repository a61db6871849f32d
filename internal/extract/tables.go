package extract

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/julien-sobczak/nimbus2md/internal/content"
	"github.com/julien-sobczak/nimbus2md/internal/markup"
)

// table converts a HTML table. Nested tables are flattened into their cell.
func (e *extractor) table(n *html.Node) *content.Table {
	var rows []*content.TableRow
	var collect func(n *html.Node, header bool)
	collect = func(n *html.Node, header bool) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Thead:
				collect(c, true)
			case atom.Tbody, atom.Tfoot:
				collect(c, false)
			case atom.Tr:
				rows = append(rows, e.tableRow(c, header))
			}
		}
	}
	collect(n, false)
	if len(rows) == 0 {
		return nil
	}

	table := &content.Table{}
	if rows[0].Header {
		table.Header = rows[0]
		rows = rows[1:]
	} else if e.opts.FirstRowAsHeader && len(rows) > 1 {
		// A single row stays a data row
		rows[0].Header = true
		table.Header = rows[0]
		rows = rows[1:]
	}
	for _, row := range rows {
		row.Header = false
	}

	if e.opts.FirstColumnAsHeader {
		table.FirstColumnHeader = true
		for _, row := range rows {
			if len(row.Cells) > 0 && len(row.Cells[0]) > 0 {
				row.Cells[0] = []content.Node{&content.Formatted{Style: markup.Bold, Children: row.Cells[0]}}
			}
		}
	}

	table.Rows = rows
	return table
}

// tableRow converts a <tr>. A row containing only <th> cells is a header row.
func (e *extractor) tableRow(tr *html.Node, header bool) *content.TableRow {
	row := &content.TableRow{Header: header}
	allHeaders := true
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.DataAtom != atom.Td && c.DataAtom != atom.Th) {
			continue
		}
		if c.DataAtom != atom.Th {
			allHeaders = false
		}
		row.Cells = append(row.Cells, trimInlines(e.inlineChildren(c)))
	}
	if len(row.Cells) > 0 && allHeaders {
		row.Header = true
	}
	return row
}
