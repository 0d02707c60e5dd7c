// Package iterators provides range-over-func iterators that pair a
// File's Blocks (and a Block's QueryResponses) with the parameters and
// tables that give them meaning, mirroring the resolved-reference
// walks a C-DNS reader needs to do on every record.
package iterators

import (
	"fmt"
	"iter"

	"github.com/jroosing/cdns/internal/cdns"
)

// Blocks iterates the Blocks of f, yielding each Block alongside the
// BlockParameters it resolves against (via its BlockPreamble's
// block_parameters_index, defaulting to index 0).
func Blocks(f *cdns.File) iter.Seq2[*cdns.Block, *cdns.BlockParameters] {
	params := f.FilePreamble.BlockParameters
	return func(yield func(*cdns.Block, *cdns.BlockParameters) bool) {
		for i := range f.FileBlocks {
			block := &f.FileBlocks[i]
			idx := block.BlockPreamble.ResolvedBlockParametersIndex()
			if idx < 0 || idx >= len(params) {
				panic(fmt.Sprintf("cdns: block_parameters_index %d out of range [0,%d)", idx, len(params)))
			}
			if !yield(block, &params[idx]) {
				return
			}
		}
	}
}

// QueryResponseEntry is one Q/R data item together with the context
// needed to resolve its indexes: the time it occurred at (if the
// Block recorded an earliest_time), the BlockParameters in force, and
// the BlockTables holding the referenced names/classtypes/signatures.
type QueryResponseEntry struct {
	QueryResponse *cdns.QueryResponse
	Time          *cdns.Timestamp
	Parameters    *cdns.BlockParameters
	Tables        *cdns.BlockTables
}

// QueryResponses iterates the QueryResponse items of block, paired with
// resolution context. It returns an error if block has no BlockTables,
// since every Q/R item references one.
func QueryResponses(block *cdns.Block, params *cdns.BlockParameters) (iter.Seq[QueryResponseEntry], error) {
	if block.BlockTables == nil {
		return nil, fmt.Errorf("cdns: block has no block_tables, cannot resolve query responses")
	}
	tables := block.BlockTables
	earliest := block.BlockPreamble.EarliestTime
	return func(yield func(QueryResponseEntry) bool) {
		for i := range block.QueryResponses {
			entry := QueryResponseEntry{
				QueryResponse: &block.QueryResponses[i],
				Time:          earliest,
				Parameters:    params,
				Tables:        tables,
			}
			if !yield(entry) {
				return
			}
		}
	}, nil
}

// ResolvedTime adds a QueryResponse's time_offset ticks (if present) to
// its Block's earliest_time, returning the absolute timestamp; whole
// seconds of ticks are carried into Seconds using the BlockParameters'
// ticks_per_second (when Parameters is set and that value is non-zero).
// It returns false if either the Block recorded no earliest_time or the
// Q/R item recorded no time_offset.
func ResolvedTime(e QueryResponseEntry) (cdns.Timestamp, bool) {
	if e.Time == nil || e.QueryResponse.TimeOffset == nil {
		return cdns.Timestamp{}, false
	}
	t := *e.Time
	ticks := uint64(t.TicksInSecond) + uint64(*e.QueryResponse.TimeOffset)
	if e.Parameters != nil {
		if tps := e.Parameters.StorageParameters.TicksPerSecond; tps > 0 {
			t.Seconds += int32(ticks / tps)
			ticks %= tps
		}
	}
	t.TicksInSecond = uint32(ticks)
	return t, true
}

func empty[T any]() iter.Seq[T] { return func(func(T) bool) {} }

// Questions iterates the second and subsequent Questions of a Q/R item
// (the first Question is referenced directly via its
// QueryResponseSignature), resolving QueryExtended.QuestionIndex through
// BlockTables.QList to a list of indexes into BlockTables.QRR.
func Questions(e QueryResponseEntry) (iter.Seq[cdns.Question], error) {
	if e.QueryResponse.QueryExtended == nil || e.QueryResponse.QueryExtended.QuestionIndex == nil {
		return empty[cdns.Question](), nil
	}
	idx := int(*e.QueryResponse.QueryExtended.QuestionIndex)
	if idx < 0 || idx >= len(e.Tables.QList) {
		return nil, fmt.Errorf("cdns: question_index %d out of range", idx)
	}
	list := e.Tables.QList[idx]
	return func(yield func(cdns.Question) bool) {
		for _, qi := range list {
			if int(qi) >= len(e.Tables.QRR) {
				return
			}
			if !yield(e.Tables.QRR[qi]) {
				return
			}
		}
	}, nil
}

// RRs iterates a resolved RR section (answer/authority/additional)
// given the BlockTables.RRList index recorded by a QueryResponseExtended
// field, resolving it to a list of indexes into BlockTables.RR.
func RRs(tables *cdns.BlockTables, rrListIndex *uint64) (iter.Seq[cdns.RR], error) {
	if rrListIndex == nil {
		return empty[cdns.RR](), nil
	}
	idx := int(*rrListIndex)
	if idx < 0 || idx >= len(tables.RRList) {
		return nil, fmt.Errorf("cdns: rr list index %d out of range", idx)
	}
	list := tables.RRList[idx]
	return func(yield func(cdns.RR) bool) {
		for _, ri := range list {
			if int(ri) >= len(tables.RR) {
				return
			}
			if !yield(tables.RR[ri]) {
				return
			}
		}
	}, nil
}
