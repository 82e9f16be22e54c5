package knowledge

import (
	"strconv"
	"strings"

	"github.com/KirkDiggler/conquest-editor/internal/entities"
	"github.com/KirkDiggler/conquest-editor/internal/pkg/logsink"
	"github.com/KirkDiggler/conquest-editor/internal/section"
)

var statusKeys = []string{"{mp", "{sp", "{ap", "{rp", "{army"}

// ParseCampaignStatus reads the flat {key value} lines of the status file
func ParseCampaignStatus(text string, sink logsink.Sink) entities.CampaignStatusInfo {
	var status entities.CampaignStatusInfo
	for _, l := range section.NewReader(text).Lines() {
		if !containsAny(l.Text, statusKeys) {
			continue
		}
		line := strings.NewReplacer("\t", "", "\n", "", "\r", "").Replace(l.Text)
		fields := strings.Fields(strings.Trim(line, "{}"))
		if len(fields) < 2 {
			continue
		}
		key, raw := fields[0], strings.Trim(fields[1], "{}")
		if key == "army" {
			status.Army = raw
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			logsink.Logf(sink, "Invalid status value in: %s", line)
			continue
		}
		switch key {
		case "mp":
			status.MP = v
		case "sp":
			status.SP = v
		case "ap":
			status.AP = v
		case "rp":
			status.RP = v
		}
	}
	return status
}
