package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/reliefscout/reliefscout/internal/model"
)

// Pattern shapes: "1.2 million displaced", "300 people evacuated",
// "injured: about 45". Numbers may carry thousands separators. A bare
// "N people" with no scale word and no impact verb is not a figure;
// "40 people drove past" says nothing about who was affected.
var (
	scaledFigure = regexp.MustCompile(
		`(\d[\d,]*(?:\.\d+)?)\s*(million|thousand|k|m)\s*` +
			`(people|affected|displaced|homeless|dead|injured)`)

	numberThenCategory = regexp.MustCompile(
		`(\d[\d,]*)\s*` +
			`(?:(?:people|victims|residents|families|households)\s+)?` +
			`(affected|displaced|homeless|evacuated|dead|killed|injured|missing)`)

	categoryThenNumber = regexp.MustCompile(
		`(affected|displaced|homeless|evacuated|dead|killed|injured|missing)[:\s]+` +
			`(?:approximately\s+|about\s+|around\s+|over\s+|more than\s+)?(\d[\d,]*)`)
)

// PeopleEstimates scans text for numeric casualty and impact figures.
// It backfills categories the oracle left empty; later mentions of the
// same category overwrite earlier ones.
func PeopleEstimates(text string) map[model.PeopleCategory]int {
	lower := strings.ToLower(text)
	estimates := make(map[model.PeopleCategory]int)

	for _, m := range scaledFigure.FindAllStringSubmatch(lower, -1) {
		n, ok := parseFigure(m[1], m[2])
		if !ok {
			continue
		}
		estimates[categoryFor(m[3])] = n
	}

	for _, m := range numberThenCategory.FindAllStringSubmatch(lower, -1) {
		n, ok := parseFigure(m[1], "")
		if !ok {
			continue
		}
		estimates[categoryFor(m[2])] = n
	}

	for _, m := range categoryThenNumber.FindAllStringSubmatch(lower, -1) {
		n, ok := parseFigure(m[2], "")
		if !ok {
			continue
		}
		estimates[categoryFor(m[1])] = n
	}

	if len(estimates) == 0 {
		return nil
	}
	return estimates
}

func parseFigure(number, scale string) (int, bool) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(number, ",", ""), 64)
	if err != nil || f < 0 {
		return 0, false
	}

	switch scale {
	case "million", "m":
		f *= 1_000_000
	case "thousand", "k":
		f *= 1_000
	}

	if f > 1e10 {
		return 0, false
	}
	return int(f), true
}

func categoryFor(keyword string) model.PeopleCategory {
	switch keyword {
	case "dead", "killed":
		return model.PeopleDead
	case "injured":
		return model.PeopleInjured
	case "displaced", "homeless":
		return model.PeopleDisplaced
	case "evacuated":
		return model.PeopleEvacuated
	case "missing":
		return model.PeopleMissing
	default:
		return model.PeopleAffected
	}
}
