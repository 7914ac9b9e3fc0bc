package league

import "strings"

// Category is the coarse line a player belongs to for team ratings.
type Category string

const (
	CategoryGK  Category = "GK"
	CategoryDEF Category = "DEF"
	CategoryMID Category = "MID"
	CategoryATT Category = "ATT"
)

// ClassifyPosition maps a free-form position code onto a Category. GK must
// match exactly; defender and midfielder codes match by substring, so "LCB" or
// "CDM" are understood. Anything else is an attacker.
func ClassifyPosition(position string) Category {
	pos := strings.ToUpper(strings.TrimSpace(position))
	switch {
	case pos == "GK":
		return CategoryGK
	case containsAny(pos, "CB", "LB", "RB", "WB"):
		return CategoryDEF
	case containsAny(pos, "DM", "CM", "AM"):
		return CategoryMID
	}
	return CategoryATT
}

// Group is the finer position used by goal and assist attribution.
type Group string

const (
	GroupGK Group = "GK"
	GroupCB Group = "CB"
	GroupLB Group = "LB"
	GroupRB Group = "RB"
	GroupWB Group = "WB"
	GroupDM Group = "DM"
	GroupCM Group = "CM"
	GroupAM Group = "AM"
	GroupLW Group = "LW"
	GroupRW Group = "RW"
	GroupST Group = "ST"
)

// groupOrder fixes the iteration order of weight tables so draws never depend
// on map ordering.
var groupOrder = []Group{
	GroupGK, GroupCB, GroupLB, GroupRB, GroupWB,
	GroupDM, GroupCM, GroupAM, GroupLW, GroupRW, GroupST,
}

var groupAliases = map[string]Group{
	"GK":  GroupGK,
	"CB":  GroupCB,
	"LCB": GroupCB,
	"RCB": GroupCB,
	"LB":  GroupLB,
	"RB":  GroupRB,
	"WB":  GroupWB,
	"LWB": GroupWB,
	"RWB": GroupWB,
	"DM":  GroupDM,
	"CDM": GroupDM,
	"CM":  GroupCM,
	"LCM": GroupCM,
	"RCM": GroupCM,
	"AM":  GroupAM,
	"CAM": GroupAM,
	"LW":  GroupLW,
	"LM":  GroupLW,
	"LF":  GroupLW,
	"RW":  GroupRW,
	"RM":  GroupRW,
	"RF":  GroupRW,
	"ST":  GroupST,
	"CF":  GroupST,
	"SS":  GroupST,
	"FW":  GroupST,
}

// PositionGroup normalises a position code to a Group, falling back on the
// code's Category for anything unrecognised.
func PositionGroup(position string) Group {
	pos := strings.ToUpper(strings.TrimSpace(position))
	if g, ok := groupAliases[pos]; ok {
		return g
	}
	switch ClassifyPosition(pos) {
	case CategoryGK:
		return GroupGK
	case CategoryDEF:
		return GroupCB
	case CategoryMID:
		return GroupCM
	}
	return GroupST
}

// creative groups feed the assist pool.
func (g Group) creative() bool {
	switch g {
	case GroupCM, GroupDM, GroupAM, GroupLW, GroupRW, GroupLB, GroupRB, GroupWB:
		return true
	}
	return false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
