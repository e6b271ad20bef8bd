package sheets

import (
	"regexp"
	"strconv"
)

var (
	spreadsheetIDPattern = regexp.MustCompile(`/d/([a-zA-Z0-9-_]+)`)
	sheetGIDPattern      = regexp.MustCompile(`[?#&]gid=([0-9]+)`)
)

// ExtractSpreadsheetID pulls the spreadsheet id out of a stored source
// URL. A URL without one cannot be fetched at all.
func ExtractSpreadsheetID(url string) (string, bool) {
	m := spreadsheetIDPattern.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ExtractSheetGID pulls the optional worksheet gid out of a stored source
// URL. Absence is not an error: it just means the first sheet.
func ExtractSheetGID(url string) (int64, bool) {
	m := sheetGIDPattern.FindStringSubmatch(url)
	if m == nil {
		return 0, false
	}
	gid, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return gid, true
}
