package domain

import (
	"fmt"
	"strings"
)

// FocusArea is the thematic category of a project. The zero value means
// no focus area has been selected.
type FocusArea int

const (
	FocusAreaNone FocusArea = iota
	FocusNutrition
	FocusEducation
	FocusEntrepreneurship
	FocusEnvironment
	FocusGender

	// NumFocusAreas sizes tables indexed by FocusArea.
	NumFocusAreas
)

var focusAreaTokens = [NumFocusAreas]string{
	FocusAreaNone:         "",
	FocusNutrition:        "nutrition",
	FocusEducation:        "education",
	FocusEntrepreneurship: "entrepreneurship",
	FocusEnvironment:      "environment",
	FocusGender:           "gender",
}

// FocusAreas lists the selectable focus areas in display order.
func FocusAreas() []FocusArea {
	return []FocusArea{FocusNutrition, FocusEducation, FocusEntrepreneurship, FocusEnvironment, FocusGender}
}

// ParseFocusArea maps a token such as "nutrition" to its FocusArea.
// Matching ignores case and surrounding space.
func ParseFocusArea(token string) (FocusArea, error) {
	t := strings.ToLower(strings.TrimSpace(token))
	if t == "" {
		return FocusAreaNone, nil
	}
	for fa := FocusNutrition; fa < NumFocusAreas; fa++ {
		if focusAreaTokens[fa] == t {
			return fa, nil
		}
	}
	return FocusAreaNone, fmt.Errorf("%w: %q", ErrUnknownFocusArea, token)
}

func (f FocusArea) Valid() bool { return f > FocusAreaNone && f < NumFocusAreas }

func (f FocusArea) String() string {
	if f < FocusAreaNone || f >= NumFocusAreas {
		return fmt.Sprintf("FocusArea(%d)", int(f))
	}
	return focusAreaTokens[f]
}

func (f FocusArea) MarshalText() ([]byte, error) {
	if f < FocusAreaNone || f >= NumFocusAreas {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFocusArea, int(f))
	}
	return []byte(focusAreaTokens[f]), nil
}

func (f *FocusArea) UnmarshalText(b []byte) error {
	fa, err := ParseFocusArea(string(b))
	if err != nil {
		return err
	}
	*f = fa
	return nil
}

// ProjectIndicator is a metric an administrator can attach to a project.
type ProjectIndicator int

const (
	IndicatorNone ProjectIndicator = iota
	IndicatorBeneficiaries
	IndicatorResourcesDistributed
	IndicatorTrainingSessions
	IndicatorCommunityEngagement

	NumProjectIndicators
)

var indicatorTokens = [NumProjectIndicators]string{
	IndicatorNone:                 "",
	IndicatorBeneficiaries:        "beneficiaries",
	IndicatorResourcesDistributed: "resources_distributed",
	IndicatorTrainingSessions:     "training_sessions",
	IndicatorCommunityEngagement:  "community_engagement_rate",
}

// ProjectIndicators lists the selectable indicators in display order.
func ProjectIndicators() []ProjectIndicator {
	return []ProjectIndicator{
		IndicatorBeneficiaries,
		IndicatorResourcesDistributed,
		IndicatorTrainingSessions,
		IndicatorCommunityEngagement,
	}
}

func ParseProjectIndicator(token string) (ProjectIndicator, error) {
	t := strings.ToLower(strings.TrimSpace(token))
	if t == "" {
		return IndicatorNone, nil
	}
	for ind := IndicatorBeneficiaries; ind < NumProjectIndicators; ind++ {
		if indicatorTokens[ind] == t {
			return ind, nil
		}
	}
	return IndicatorNone, fmt.Errorf("%w: %q", ErrUnknownIndicator, token)
}

func (p ProjectIndicator) Valid() bool { return p > IndicatorNone && p < NumProjectIndicators }

func (p ProjectIndicator) String() string {
	if p < IndicatorNone || p >= NumProjectIndicators {
		return fmt.Sprintf("ProjectIndicator(%d)", int(p))
	}
	return indicatorTokens[p]
}

func (p ProjectIndicator) MarshalText() ([]byte, error) {
	if p < IndicatorNone || p >= NumProjectIndicators {
		return nil, fmt.Errorf("%w: %d", ErrUnknownIndicator, int(p))
	}
	return []byte(indicatorTokens[p]), nil
}

func (p *ProjectIndicator) UnmarshalText(b []byte) error {
	ind, err := ParseProjectIndicator(string(b))
	if err != nil {
		return err
	}
	*p = ind
	return nil
}
