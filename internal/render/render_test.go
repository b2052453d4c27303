package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"tindahan/internal/checkout"
	"tindahan/internal/core"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// tableRows parses md and returns the text of every table cell, row by row,
// header first.
func tableRows(t *testing.T, md string) [][]string {
	t.Helper()
	src := []byte(md)
	root := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser().Parse(text.NewReader(src))

	var rows [][]string
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *east.TableHeader, *east.TableRow:
			var cells []string
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				cells = append(cells, nodeText(c, src))
			}
			rows = append(rows, cells)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	return rows
}

func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if txt, ok := c.(*ast.Text); ok && entering {
			b.Write(txt.Segment.Value(src))
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

func TestFormatterMoney(t *testing.T) {
	f := NewFormatter("PHP")
	tests := []struct {
		in   string
		want string
	}{
		{"0", "₱0.00"},
		{"100", "₱100.00"},
		{"1234.5", "₱1,234.50"},
		{"0.005", "₱0.01"},
		{"-20", "-₱20.00"},
	}
	for _, tt := range tests {
		if got := f.Money(d(tt.in)); got != tt.want {
			t.Errorf("Money(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := f.Signed(d("5"), core.Expense); got != "- ₱5.00" {
		t.Errorf("Signed expense = %q", got)
	}
	if NewFormatter("XYZ").Currency() != "PHP" {
		t.Errorf("unknown currency should fall back to PHP")
	}
	if got := NewFormatter("USD").Money(d("3")); got != "$3.00" {
		t.Errorf("USD = %q", got)
	}
}

func TestSheetsTable(t *testing.T) {
	m := NewMarkdown(NewFormatter("PHP"))
	md := m.Sheets([]core.SheetSummary{
		{Index: 0, Name: "Drinks", Icon: "fa-coffee", Entries: 2, Totals: core.Totals{Income: d("100"), Expense: d("20")}},
		{Index: 1, Name: "Food", Icon: "fa-utensils"},
	}, 1)

	rows := tableRows(t, md)
	if len(rows) != 3 {
		t.Fatalf("expected header and two rows, got %d: %q", len(rows), md)
	}
	if rows[0][1] != "Sheet" || rows[1][1] != "Drinks" || rows[1][4] != "₱100.00" || rows[1][5] != "₱20.00" {
		t.Errorf("unexpected first row %q", rows[1])
	}
	if !strings.HasPrefix(rows[2][1], "Food") {
		t.Errorf("unexpected selected row %q", rows[2])
	}
	if !strings.Contains(md, "**Food** *") {
		t.Errorf("selected sheet not marked: %q", md)
	}
}

func TestCartTable(t *testing.T) {
	m := NewMarkdown(NewFormatter("PHP"))
	lines := []core.CartLine{{Name: "Coffee", UnitPrice: d("50"), Quantity: 2}}
	rows := tableRows(t, m.Cart(lines, d("100")))
	if len(rows) != 2 || rows[1][0] != "Coffee" || rows[1][1] != "2" || rows[1][3] != "₱100.00" {
		t.Fatalf("unexpected cart rows %q", rows)
	}
	if got := m.Cart(nil, decimal.Zero); !strings.Contains(got, "empty") {
		t.Errorf("empty cart = %q", got)
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	m := NewMarkdown(NewFormatter("PHP"))
	at := time.Date(2025, 1, 2, 3, 4, 0, 0, time.Local)
	md := m.History([]core.HistoryItem{
		{SheetName: "Drinks", Amount: d("1"), Type: core.Income, DateTime: at},
		{SheetName: "Food", Amount: d("2"), Type: core.Expense, DateTime: at},
	})
	if strings.Index(md, "Food") > strings.Index(md, "Drinks") {
		t.Errorf("expected newest first: %q", md)
	}
	if !strings.Contains(md, "- ₱2.00") || !strings.Contains(md, "2025-01-02 03:04") {
		t.Errorf("unexpected history: %q", md)
	}
}

func TestQuoteAndOutcome(t *testing.T) {
	m := NewMarkdown(NewFormatter("PHP"))
	tests := []struct {
		q    checkout.Quote
		want string
	}{
		{checkout.Quote{Status: checkout.NoItems}, "No items"},
		{checkout.Quote{Status: checkout.Exact}, "Exact"},
		{checkout.Quote{Status: checkout.ChangeDue, Change: d("50")}, "₱50.00"},
		{checkout.Quote{Status: checkout.Short, Change: d("-20")}, "Short by **₱20.00**"},
	}
	for _, tt := range tests {
		if got := m.Quote(tt.q); !strings.Contains(got, tt.want) {
			t.Errorf("Quote(%s) = %q, want %q", tt.q.Status, got, tt.want)
		}
	}

	out := checkout.Outcome{
		Order:     core.Order{ID: 7, Change: d("50")},
		SheetName: "Drinks",
		Status:    checkout.ChangeDue,
	}
	if got := m.Outcome(out); !strings.Contains(got, "#7") || !strings.Contains(got, "₱50.00") {
		t.Errorf("Outcome = %q", got)
	}

	e := core.NewInsufficientFunds(d("100"), d("80"))
	if got := m.Shortfall(e); !strings.Contains(got, "need ₱20.00 more") {
		t.Errorf("Shortfall = %q", got)
	}
}

func TestReportSections(t *testing.T) {
	m := NewMarkdown(NewFormatter("PHP"))
	md := m.Report(Report{
		Summaries: []core.SheetSummary{{Index: 0, Name: "Drinks"}},
		Selected:  -1,
		Totals:    core.Totals{Income: d("10"), Expense: d("4")},
		Orders: []core.Order{{
			ID:    1,
			Items: []core.CartLine{{Name: "Tea", UnitPrice: d("10"), Quantity: 1}},
			Total: d("10"), Tendered: d("10"),
		}},
	})

	src := []byte(md)
	root := goldmark.DefaultParser().Parse(text.NewReader(src))
	var headings []string
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := n.(*ast.Heading); ok && entering {
			headings = append(headings, nodeText(h, src))
		}
		return ast.WalkContinue, nil
	})
	want := []string{"Tindahan", "Totals", "Sheets", "Cart", "History", "Orders"}
	if strings.Join(headings, ",") != strings.Join(want, ",") {
		t.Errorf("headings = %v, want %v", headings, want)
	}

	rows := tableRows(t, m.Totals(core.Totals{Income: d("10"), Expense: d("4")}))
	if rows[1][2] != "₱6.00" {
		t.Errorf("net = %q", rows[1][2])
	}
}

func TestReportSaveFooter(t *testing.T) {
	m := NewMarkdown(NewFormatter("PHP"))
	if md := m.Report(Report{Selected: -1}); strings.Contains(md, "Saved") {
		t.Errorf("footer shown without a save log:\n%s", md)
	}
	at := time.Date(2025, 6, 1, 12, 30, 0, 0, time.Local)
	md := m.Report(Report{Selected: -1, Saves: 3, SavedAt: at})
	if !strings.Contains(md, "_Saved 3 times, last at 2025-06-01 12:30._") {
		t.Errorf("unexpected footer:\n%s", md)
	}
	if md := m.Report(Report{Selected: -1, Saves: 1, SavedAt: at}); !strings.Contains(md, "Saved 1 time,") {
		t.Errorf("unexpected singular footer:\n%s", md)
	}
}

func TestEscapeUserText(t *testing.T) {
	m := NewMarkdown(NewFormatter("PHP"))
	rows := tableRows(t, m.Sheets([]core.SheetSummary{{Index: 0, Name: "A|B", Icon: "x"}}, -1))
	if len(rows) != 2 || len(rows[1]) != 6 {
		t.Fatalf("pipe in name broke the table: %q", rows)
	}
}

func TestPrinter(t *testing.T) {
	var plain bytes.Buffer
	p, err := NewPrinter(&plain, true, "", 80)
	if err != nil {
		t.Fatalf("NewPrinter: %v", err)
	}
	if err := p.Print("# Hi\n"); err != nil || plain.String() != "# Hi\n" {
		t.Fatalf("plain output = %q (%v)", plain.String(), err)
	}

	var styled bytes.Buffer
	p, err = NewPrinter(&styled, false, "notty", 80)
	if err != nil {
		t.Fatalf("NewPrinter: %v", err)
	}
	if err := p.Print("# Hi\n\nsome **bold** text\n"); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if !strings.Contains(styled.String(), "Hi") || !strings.Contains(styled.String(), "bold") {
		t.Errorf("styled output = %q", styled.String())
	}
}
