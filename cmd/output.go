package main

import (
	"classscan/pkg/domain"
	"fmt"
	"io"
	"strconv"

	"github.com/go-faster/jx"
	"github.com/olekukonko/tablewriter"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// writeNames prints one qualified name per line, or {"classes":[...]}.
func writeNames(w io.Writer, format string, names []domain.QualifiedName) error {
	if format == formatJSON {
		var e jx.Encoder
		e.ObjStart()
		e.FieldStart("classes")
		e.ArrStart()
		for _, name := range names {
			e.Str(name)
		}
		e.ArrEnd()
		e.ObjEnd()

		return writeLine(w, e.Bytes())
	}

	for _, name := range names {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return fmt.Errorf("could not write output: %w", err)
		}
	}

	return nil
}

// writeHandles prints loaded classes as a table, or {"classes":[{...}]}.
func writeHandles(w io.Writer, format string, handles []domain.TypeHandle) error {
	if format == formatJSON {
		var e jx.Encoder
		e.ObjStart()
		e.FieldStart("classes")
		e.ArrStart()
		for _, h := range handles {
			encodeHandle(&e, h)
		}
		e.ArrEnd()
		e.ObjEnd()

		return writeLine(w, e.Bytes())
	}

	if len(handles) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Package", "Class", "Release", "Version", "Location"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT,
	})

	for _, h := range handles {
		table.Append([]string{
			h.Package(),
			h.SimpleName(),
			h.Release(),
			strconv.Itoa(int(h.MajorVersion)) + "." + strconv.Itoa(int(h.MinorVersion)),
			h.Location,
		})
	}

	table.SetFooter([]string{fmt.Sprintf("Total %d", len(handles)), "", "", "", ""})
	table.Render()

	return nil
}

func encodeHandle(e *jx.Encoder, h domain.TypeHandle) {
	e.ObjStart()
	e.FieldStart("name")
	e.Str(h.Name)
	e.FieldStart("location")
	e.Str(h.Location)
	e.FieldStart("majorVersion")
	e.Int(int(h.MajorVersion))
	e.FieldStart("minorVersion")
	e.Int(int(h.MinorVersion))
	e.FieldStart("release")
	e.Str(h.Release())
	e.ObjEnd()
}

func writeLine(w io.Writer, b []byte) error {
	if _, err := w.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}

	return nil
}
