package service

import "golang-fin-scryper/internal/fin/dto"

type statementKey struct {
	accountNm string
	sjNm      string
}

// DeduplicateStatements keeps one line per (account name, statement name): the one with
// the lowest display order. On equal order the later line wins.
func DeduplicateStatements(lines []dto.RawStatementLine) []dto.RawStatementLine {
	kept := make(map[statementKey]int, len(lines))
	out := make([]dto.RawStatementLine, 0, len(lines))

	for _, line := range lines {
		key := statementKey{accountNm: line.AccountNm, sjNm: line.SjNm}
		idx, ok := kept[key]
		if !ok {
			kept[key] = len(out)
			out = append(out, line)
			continue
		}
		if line.Ord <= out[idx].Ord {
			out[idx] = line
		}
	}
	return out
}
