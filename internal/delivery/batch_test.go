package delivery

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HNSummarizer/internal/domain"
)

func numberedRecords(n int) []domain.SummaryRecord {
	records := make([]domain.SummaryRecord, n)
	for i := range records {
		records[i] = domain.SummaryRecord{Story: domain.Story{ID: int64(i + 1), Title: fmt.Sprintf("S%d", i+1)}}
	}
	return records
}

func TestBatchRecordsSizesAndOrder(t *testing.T) {
	batches := BatchRecords(numberedRecords(7), 3)

	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 3)
	assert.Len(t, batches[1], 3)
	assert.Len(t, batches[2], 1)

	var ids []int64
	for _, batch := range batches {
		for _, record := range batch {
			ids = append(ids, record.Story.ID)
		}
	}
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7}, ids)
}

func TestBatchRecordsExactDivision(t *testing.T) {
	batches := BatchRecords(numberedRecords(6), 3)

	require.Len(t, batches, 2)
	assert.Len(t, batches[0], 3)
	assert.Len(t, batches[1], 3)
}

func TestBatchRecordsEmptyInput(t *testing.T) {
	assert.Nil(t, BatchRecords(nil, 3))
}

func TestBatchRecordsNonPositiveSize(t *testing.T) {
	batches := BatchRecords(numberedRecords(4), 0)
	require.Len(t, batches, 1)
	assert.Len(t, batches[0], 4)
}

func TestChunkRunesPreservesMultiByteText(t *testing.T) {
	chunks := ChunkRunes("あいうえおかき", 3)

	assert.Equal(t, []string{"あいう", "えおか", "き"}, chunks)
	assert.Equal(t, "あいうえおかき", chunks[0]+chunks[1]+chunks[2])
}

func TestChunkRunesShortInput(t *testing.T) {
	assert.Equal(t, []string{"short"}, ChunkRunes("short", 3000))
	assert.Nil(t, ChunkRunes("", 3000))
}
