package main

import (
	"bytes"
	"classscan/internal/classtest"
	"classscan/pkg/classpath"
	"classscan/pkg/domain"
	"classscan/pkg/scanner"
	mockscanner "classscan/pkg/scanner/mock"
	"classscan/pkg/serrors"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newClasspath writes a class tree and a jar into a temporary directory and
// returns their absolute paths.
func newClasspath(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	fs := osfs.New(dir)
	classtest.WriteTree(t, fs, "classes", map[string][]byte{
		"com/example/Foo.class":         nil,
		"com/example/service/Bar.class": nil,
		"com/example/README.txt":        []byte("not a class"),
	})
	classtest.WriteJar(t, fs, "lib/log4j.jar", []classtest.Entry{
		{Name: "org/apache/log4j/"},
		{Name: "org/apache/log4j/Logger.class", Body: classtest.Class(49)},
		{Name: "org/apache/log4j/xml/XMLLayout.class", Body: classtest.Class(49)},
		{Name: "org/apache/log4j/xml/DOMConfigurator.class", Body: classtest.Class(49)},
	})

	return filepath.Join(dir, "classes"), filepath.Join(dir, "lib", "log4j.jar")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()

	return out.String(), err
}

func TestScanCommand(t *testing.T) {
	classes, _ := newClasspath(t)

	out, err := execute(t, "scan", "-p", classes, "com.example")
	require.NoError(t, err)
	require.ElementsMatch(t,
		[]string{"com.example.Foo", "com.example.service.Bar"},
		splitLines(out),
	)
}

func TestScanCommandJSON(t *testing.T) {
	classes, jar := newClasspath(t)

	out, err := execute(t, "scan",
		"-p", classes, "-p", jar,
		"--no-default-filter", "-i", ".*(xml).*", "-e", ".*(DOMConfigurator).*",
		"--format", "json",
		"org.apache.log4j",
	)
	require.NoError(t, err)
	require.JSONEq(t, `{"classes":["org.apache.log4j.xml.XMLLayout"]}`, out)
}

func TestScanCommandNothingFound(t *testing.T) {
	classes, _ := newClasspath(t)

	out, err := execute(t, "scan", "-p", classes, "--format", "json", "org.missing")
	require.NoError(t, err)
	require.JSONEq(t, `{"classes":[]}`, out)
}

func TestLoadCommandJSON(t *testing.T) {
	_, jar := newClasspath(t)

	out, err := execute(t, "load", "-p", jar, "-e", ".*xml.*", "-f", "json", "org.apache.log4j")
	require.NoError(t, err)
	require.JSONEq(t, fmt.Sprintf(`{"classes":[{
		"name":"org.apache.log4j.Logger",
		"location":"jar:file:%s!/org/apache/log4j/Logger.class",
		"majorVersion":49,
		"minorVersion":0,
		"release":"5"
	}]}`, filepath.ToSlash(jar)), out)
}

func TestLoadCommandTable(t *testing.T) {
	classes, _ := newClasspath(t)

	out, err := execute(t, "load", "-p", classes, "com.example.service")
	require.NoError(t, err)
	require.Contains(t, out, "com.example.service")
	require.Contains(t, out, " Bar ")
	require.Contains(t, out, "52.0")
	require.Contains(t, out, "TOTAL 1")
}

func TestCommandErrors(t *testing.T) {
	classes, _ := newClasspath(t)

	tests := []struct {
		name     string
		args     []string
		wantKind serrors.Kind
	}{
		{
			name:     "invalid include pattern",
			args:     []string{"scan", "-p", classes, "-i", "a)(b", "com.example"},
			wantKind: serrors.ErrInvalidPattern,
		},
		{
			name:     "unknown format",
			args:     []string{"scan", "-p", classes, "--format", "xml", "com.example"},
			wantKind: serrors.ErrBadRequest,
		},
		{
			name:     "missing config file",
			args:     []string{"scan", "-c", filepath.Join(t.TempDir(), "missing.yml"), "com.example"},
			wantKind: serrors.ErrBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.ErrorIs(t, err, tt.wantKind)
			require.Equal(t, exitUsage, exitCode(err))
		})
	}
}

func TestPrintScanKeepsNamesFoundBeforeFailure(t *testing.T) {
	classes, _ := newClasspath(t)
	broken := filepath.Join(t.TempDir(), "broken.jar")
	require.NoError(t, os.WriteFile(broken, []byte("not a zip"), 0o600))

	ctrl := gomock.NewController(t)
	resolver := mockscanner.NewMockResolver(ctrl)
	resolver.EXPECT().Resource(gomock.Any(), "com/example").
		Return(classpath.DirLocator(filepath.ToSlash(filepath.Join(classes, "com", "example"))), true, nil)
	resolver.EXPECT().Resource(gomock.Any(), "in/broken").
		Return(classpath.ArchiveLocator(filepath.ToSlash(broken), "in/broken"), true, nil)

	s, err := scanner.New(scanner.Options{Resolver: resolver})
	require.NoError(t, err)

	var out bytes.Buffer
	err = printScan(context.Background(), s, &out, formatText, []string{"com.example", "in.broken"})
	require.ErrorIs(t, err, serrors.ErrEnumeration)
	require.Equal(t, exitFailure, exitCode(err))
	require.ElementsMatch(t,
		[]string{"com.example.Foo", "com.example.service.Bar"},
		splitLines(out.String()),
	)
}

func TestPrintLoadKeepsHandlesFoundBeforeFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := mockscanner.NewMockScanner(ctrl)
	s.EXPECT().ScanAndLoad(gomock.Any(), "a", "b").Return(
		[]domain.TypeHandle{{Name: "a.X", Location: "file:/cp/a/X.class", MajorVersion: 52}},
		serrors.With(serrors.ErrDecode, "bad locator"),
	)

	var out bytes.Buffer
	err := printLoad(context.Background(), s, &out, formatJSON, []string{"a", "b"})
	require.ErrorIs(t, err, serrors.ErrDecode)
	require.Equal(t, exitFailure, exitCode(err))
	require.JSONEq(t, `{"classes":[{
		"name":"a.X",
		"location":"file:/cp/a/X.class",
		"majorVersion":52,
		"minorVersion":0,
		"release":"8"
	}]}`, out.String())
}

func TestExitCode(t *testing.T) {
	require.Equal(t, exitFailure, exitCode(errors.New("boom")))
	require.Equal(t, exitFailure, exitCode(serrors.KindOnly(serrors.ErrEnumeration)))
	require.Equal(t, exitUsage, exitCode(fmt.Errorf("wrapped: %w", serrors.KindOnly(serrors.ErrBadRequest))))
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range bytes.Split([]byte(s), []byte("\n")) {
		if len(line) > 0 {
			lines = append(lines, string(line))
		}
	}

	return lines
}
