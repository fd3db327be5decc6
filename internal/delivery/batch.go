package delivery

import "HNSummarizer/internal/domain"

// BatchRecords splits records into batches of at most size, preserving
// order across batch boundaries.
func BatchRecords(records []domain.SummaryRecord, size int) [][]domain.SummaryRecord {
	if size <= 0 || len(records) == 0 {
		if len(records) == 0 {
			return nil
		}
		return [][]domain.SummaryRecord{records}
	}

	batches := make([][]domain.SummaryRecord, 0, (len(records)+size-1)/size)
	for start := 0; start < len(records); start += size {
		end := min(start+size, len(records))
		batches = append(batches, records[start:end])
	}
	return batches
}

// ChunkRunes splits s into contiguous chunks of at most max runes,
// preserving order. Rune boundaries keep multi-byte text intact.
func ChunkRunes(s string, max int) []string {
	if max <= 0 || s == "" {
		if s == "" {
			return nil
		}
		return []string{s}
	}

	runes := []rune(s)
	chunks := make([]string, 0, (len(runes)+max-1)/max)
	for start := 0; start < len(runes); start += max {
		end := min(start+max, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
