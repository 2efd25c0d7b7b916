package models

// AnalysisRequest carries the two texts compared by the completion service.
type AnalysisRequest struct {
	ProfileText    string `json:"profileText" validate:"notblank"`
	JobDescription string `json:"jobDescription" validate:"notblank"`
}

// AnalysisResult is the decoded compatibility report. Optional lists are
// always non-nil after decoding.
type AnalysisResult struct {
	MatchScore       int                 `json:"matchScore"`
	MatchExplanation string              `json:"matchExplanation"`
	Strengths        []string            `json:"strengths"`
	SkillGaps        []string            `json:"skillGaps"`
	ProfileUpdates   []ProfileUpdate     `json:"profileUpdates"`
	InterviewPrep    []InterviewQuestion `json:"interviewPrep"`
	AdditionalTips   []string            `json:"additionalTips"`
	CompanyAnalysis  *CompanyAnalysis    `json:"companyAnalysis,omitempty"`
}

type ProfileUpdate struct {
	Section    string `json:"section"`
	Suggestion string `json:"suggestion"`
}

type InterviewQuestion struct {
	Question    string `json:"question"`
	HowToAnswer string `json:"howToAnswer"`
}

type CompanyAnalysis struct {
	CompanyName      string   `json:"companyName"`
	Overview         string   `json:"overview"`
	FinancialStatus  string   `json:"financialStatus"`
	RecentNews       []string `json:"recentNews"`
	Concerns         []string `json:"concerns"`
	CultureSignals   []string `json:"cultureSignals"`
	GrowthTrajectory string   `json:"growthTrajectory"`
}

// Normalize replaces missing optional lists with empty ones.
func (r *AnalysisResult) Normalize() {
	r.Strengths = orEmpty(r.Strengths)
	r.SkillGaps = orEmpty(r.SkillGaps)
	r.AdditionalTips = orEmpty(r.AdditionalTips)
	if r.ProfileUpdates == nil {
		r.ProfileUpdates = []ProfileUpdate{}
	}
	if r.InterviewPrep == nil {
		r.InterviewPrep = []InterviewQuestion{}
	}
	if r.CompanyAnalysis != nil {
		r.CompanyAnalysis.RecentNews = orEmpty(r.CompanyAnalysis.RecentNews)
		r.CompanyAnalysis.Concerns = orEmpty(r.CompanyAnalysis.Concerns)
		r.CompanyAnalysis.CultureSignals = orEmpty(r.CompanyAnalysis.CultureSignals)
	}
}

func orEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
