package rawcsv

import "testing"

func TestParseBasic(t *testing.T) {
	text := "Symbol,Price,Qty\nMNQH5,21000.25,3\nESM5,5900.50,1\n"
	headers, rows := Parse(text)

	if len(headers) != 3 {
		t.Fatalf("expected 3 headers, got %d: %v", len(headers), headers)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["Symbol"] != "MNQH5" || rows[0]["Price"] != "21000.25" || rows[0]["Qty"] != "3" {
		t.Errorf("unexpected first row: %v", rows[0])
	}
	if rows[1]["Symbol"] != "ESM5" {
		t.Errorf("unexpected second row: %v", rows[1])
	}
}

func TestParseQuotedFieldWithComma(t *testing.T) {
	text := "Name,Value\n\"Smith, John\",42\n"
	_, rows := Parse(text)

	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0]["Name"] != "Smith, John" {
		t.Errorf("quoted comma not preserved: got %q", rows[0]["Name"])
	}
	if rows[0]["Value"] != "42" {
		t.Errorf("expected Value 42, got %q", rows[0]["Value"])
	}
}

func TestParseQuotedHeaders(t *testing.T) {
	text := "\"Fill Time\",\"B/S\"\n2025-02-03T09:30:00,Buy\n"
	headers, rows := Parse(text)

	if headers[0] != "Fill Time" || headers[1] != "B/S" {
		t.Errorf("wrapping quotes not stripped from headers: %v", headers)
	}
	if rows[0]["Fill Time"] != "2025-02-03T09:30:00" {
		t.Errorf("unexpected value for quoted header: %v", rows[0])
	}
}

func TestParseDoubledQuoteIsDropped(t *testing.T) {
	// The tokenizer toggles quote state on every quote and never emits one,
	// so "" inside a quoted field disappears instead of becoming a literal quote.
	text := "Name\n\"say \"\"hi\"\"\"\n"
	_, rows := Parse(text)

	if rows[0]["Name"] != "say hi" {
		t.Errorf("expected doubled quotes dropped, got %q", rows[0]["Name"])
	}
}

func TestParseMissingTrailingValues(t *testing.T) {
	text := "A,B,C\n1,2\n"
	_, rows := Parse(text)

	if rows[0]["A"] != "1" || rows[0]["B"] != "2" {
		t.Fatalf("unexpected row: %v", rows[0])
	}
	if v, ok := rows[0]["C"]; !ok || v != "" {
		t.Errorf("missing trailing value should be empty string, got %q (present=%v)", v, ok)
	}
}

func TestParseFieldsAreTrimmed(t *testing.T) {
	text := "A, B \n  x ,  y  \n"
	headers, rows := Parse(text)

	if headers[1] != "B" {
		t.Errorf("header not trimmed: %q", headers[1])
	}
	if rows[0]["A"] != "x" || rows[0]["B"] != "y" {
		t.Errorf("values not trimmed: %v", rows[0])
	}
}

func TestParseTooFewLines(t *testing.T) {
	for _, text := range []string{"", "   \n  ", "OnlyHeader,Row"} {
		headers, rows := Parse(text)
		if len(headers) != 0 || len(rows) != 0 {
			t.Errorf("Parse(%q) should yield empty results, got headers=%v rows=%v", text, headers, rows)
		}
	}
}

func TestParseWindowsLineEndings(t *testing.T) {
	// \r survives the '\n'-only split but field trimming removes it.
	text := "A,B\r\n1,2\r\n"
	headers, rows := Parse(text)

	if headers[1] != "B" {
		t.Errorf("header carries carriage return: %q", headers[1])
	}
	if rows[0]["B"] != "2" {
		t.Errorf("value carries carriage return: %q", rows[0]["B"])
	}
}
