package inventory

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/conquest-editor/internal/errors"
)

var (
	entryNameRegex   = regexp.MustCompile(`\{item(?:\s+"[^"]+")+`)
	quotedRegex      = regexp.MustCompile(`"([^"]+)"`)
	entryAmountRegex = regexp.MustCompile(`"[^"]+"\s+(?:"[^"]+"\s+)*?(\d+)\s*\{cell`)
	entryCellRegex   = regexp.MustCompile(`\{cell\s+(\d{1,2})\s+(\d{1,2})\}`)
	fillAmountRegex  = regexp.MustCompile(`(\d+)(\s*\{cell)`)
)

const (
	fillingKeyword = "filling"
	filledKeyword  = "filled"
)

// ItemInfo is one parsed inventory entry
type ItemInfo struct {
	Name   string
	Amount int
	CellX  int
	CellY  int
}

// ParseEntry reads the item name, amount and anchor cell of a save
// inventory line such as
//
//	{item "kar98k" "ammo" 10 {cell 0 1}}
//
// The name joins the quoted tokens with dots. Entries without an amount, or
// marked as filling, count as one.
func ParseEntry(entry string) (ItemInfo, error) {
	matches := entryNameRegex.FindAllString(entry, -1)
	if len(matches) == 0 {
		return ItemInfo{}, errors.DataLossf("no item name in inventory entry: %s", strings.TrimSpace(entry))
	}
	var parts []string
	for _, q := range quotedRegex.FindAllStringSubmatch(matches[len(matches)-1], -1) {
		parts = append(parts, q[1])
	}

	info := ItemInfo{Name: strings.Join(parts, "."), Amount: 1}
	if m := entryAmountRegex.FindStringSubmatch(entry); m != nil && !strings.Contains(entry, fillingKeyword) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return ItemInfo{}, errors.WrapWithCodef(err, errors.CodeDataLoss, "bad amount in inventory entry: %s", strings.TrimSpace(entry))
		}
		info.Amount = n
	}

	cell := entryCellRegex.FindStringSubmatch(entry)
	if cell == nil {
		return ItemInfo{}, errors.DataLossf("no cell in inventory entry: %s", strings.TrimSpace(entry))
	}
	info.CellX, _ = strconv.Atoi(cell[1])
	info.CellY, _ = strconv.Atoi(cell[2])
	return info, nil
}

// FormatEntry renders a new inventory line. The amount is written only when
// it is greater than one.
func FormatEntry(name string, amount, x, y int) string {
	var sb strings.Builder
	sb.WriteString("\t\t\t{item ")
	for _, part := range strings.Split(name, ".") {
		fmt.Fprintf(&sb, "%q ", part)
	}
	if amount > 1 {
		fmt.Fprintf(&sb, "%d ", amount)
	}
	fmt.Fprintf(&sb, "{cell %d %d}}\n", x, y)
	return sb.String()
}

// withAmount rewrites only the amount token of entry
func withAmount(entry string, amount int) (string, bool) {
	loc := fillAmountRegex.FindStringSubmatchIndex(entry)
	if loc == nil {
		return entry, false
	}
	return entry[:loc[2]] + strconv.Itoa(amount) + entry[loc[3]:], true
}

// explicitAmount returns the amount written in front of {cell, if any
func explicitAmount(entry string) (int, bool) {
	m := fillAmountRegex.FindStringSubmatch(entry)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
