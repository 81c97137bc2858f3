// Package crates converts a crates.io database dump into a QVS20 table.
//
// The dump ships crates.csv and versions.csv. The resulting table has one
// row per crate with its newest version that has not been yanked.
package crates

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/op/go-logging"
	"golang.org/x/mod/semver"

	"github.com/shapestone/shape-qvs20/internal/csvsource"
	"github.com/shapestone/shape-qvs20/pkg/qvs20"
	"github.com/shapestone/shape-qvs20/pkg/types"
)

var log = logging.MustGetLogger("crates")

// TableName is the name of the generated table.
const TableName = "crates"

// NoVersion is written for crates without a published, non-yanked version.
const NoVersion = "0.0.0"

// Schema returns the schema of the crates table.
func Schema() *types.Table {
	return types.NewTable(TableName, types.DefaultRowDelimiter,
		types.Column{Name: "name", Type: types.TypeString},
		types.Column{Name: "description", Type: types.TypeString},
		types.Column{Name: "repository", Type: types.TypeString},
		types.Column{Name: "id", Type: types.TypeString},
		types.Column{Name: "last_version", Type: types.TypeString},
	)
}

// LatestVersions reads versions.csv and returns the greatest non-yanked
// version number of every crate id. Numbers that are not semantic versions
// are skipped.
func LatestVersions(r io.Reader) (map[string]string, error) {
	rd := csvsource.NewReader(r)
	header, err := rd.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("versions header: %w", err)
	}
	idx, err := csvsource.Columns(header, "crate_id", "num", "yanked")
	if err != nil {
		return nil, fmt.Errorf("versions header: %w", err)
	}

	latest := make(map[string]string)
	skipped := 0
	for {
		rec, err := rd.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("versions line %d: %w", rd.Line(), err)
		}
		crateID, num, yanked := rec[idx[0]], rec[idx[1]], rec[idx[2]]
		if isYanked, err := strconv.ParseBool(yanked); err != nil {
			return nil, fmt.Errorf("versions line %d: yanked %q: %w", rd.Line(), yanked, err)
		} else if isYanked {
			continue
		}
		if !semver.IsValid("v" + num) {
			skipped++
			continue
		}
		if cur, ok := latest[crateID]; !ok || semver.Compare("v"+num, "v"+cur) > 0 {
			latest[crateID] = num
		}
	}
	if skipped > 0 {
		log.Debugf("skipped %d versions that are not semantic versions", skipped)
	}
	return latest, nil
}

// Convert reads crates.csv from cratesCSV, looks up each crate's latest
// version in versions and writes the crates table to w. It returns the
// number of rows written.
func Convert(ctx context.Context, cratesCSV io.Reader, versions map[string]string, w io.Writer) (int, error) {
	rd := csvsource.NewReader(cratesCSV)
	header, err := rd.Read()
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("crates header: %w", err)
	}
	var idx []int
	if err == nil {
		if idx, err = csvsource.Columns(header, "name", "description", "repository", "id"); err != nil {
			return 0, fmt.Errorf("crates header: %w", err)
		}
	}

	wr, err := qvs20.NewWriter(w, Schema())
	if err != nil {
		return 0, err
	}
	for idx != nil {
		if err := ctx.Err(); err != nil {
			return wr.Rows(), err
		}
		rec, err := rd.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return wr.Rows(), fmt.Errorf("crates line %d: %w", rd.Line(), err)
		}
		version, ok := versions[rec[idx[3]]]
		if !ok {
			version = NoVersion
		}
		row := types.NewRow(
			types.StringValue(rec[idx[0]]),
			types.StringValue(rec[idx[1]]),
			types.StringValue(rec[idx[2]]),
			types.StringValue(rec[idx[3]]),
			types.StringValue(version),
		)
		if err := wr.WriteRow(row); err != nil {
			return wr.Rows(), err
		}
	}
	if err := wr.Close(); err != nil {
		return wr.Rows(), err
	}
	log.Infof("converted %d crates", wr.Rows())
	return wr.Rows(), nil
}

// Build converts both CSV files into an in-memory table.
func Build(ctx context.Context, cratesCSV, versionsCSV io.Reader) (*types.Table, error) {
	versions, err := LatestVersions(versionsCSV)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := Convert(ctx, cratesCSV, versions, &buf); err != nil {
		return nil, err
	}
	return qvs20.Parse(buf.Bytes())
}
