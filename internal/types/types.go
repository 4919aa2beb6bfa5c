package types

// Experience levels produced by the JD analyzer
const (
	LevelJunior    = "junior"
	LevelMid       = "mid-level"
	LevelSenior    = "senior"
	LevelStaff     = "staff/principal"
	LevelExecutive = "executive/director"
)

// DefaultDomain is reported when no domain keyword matches
const DefaultDomain = "Technology"

// JDSections holds the best-effort section split of a job description
type JDSections struct {
	Responsibilities string `json:"responsibilities"`
	Requirements     string `json:"requirements"`
	NiceToHave       string `json:"niceToHave"`
	AboutCompany     string `json:"aboutCompany"`
}

// JDProfile is the structured analysis of a job description
type JDProfile struct {
	JobTitle         string              `json:"jobTitle"`
	Domain           string              `json:"domain"`
	ExperienceLevel  string              `json:"experienceLevel"`
	TechnicalSkills  []string            `json:"technicalSkills"`
	SoftSkills       []string            `json:"softSkills"`
	Keywords         []string            `json:"keywords"`
	ActionVerbs      []string            `json:"actionVerbs"`
	SkillsByCategory map[string][]string `json:"skillsByCategory"`
	Sections         JDSections          `json:"sections"`
	RawText          string              `json:"rawText"`
}

// IsEmpty reports whether the profile is the soft-failure value returned for
// insufficient input.
func (p JDProfile) IsEmpty() bool {
	return p.RawText == "" && p.Domain == "" && p.ExperienceLevel == ""
}

// Contact holds candidate contact details
type Contact struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

// ExperienceEntry is one position in the experience section
type ExperienceEntry struct {
	Company  string   `json:"company"`
	Role     string   `json:"role"`
	Dates    string   `json:"dates"`
	Location string   `json:"location"`
	Bullets  []string `json:"bullets"`
	Raw      string   `json:"raw"`
}

// Resume is the structured résumé document. The optimized variant shares the
// same shape and additionally carries JDTitle and Domain.
type Resume struct {
	Name            string            `json:"name"`
	Contact         Contact           `json:"contact"`
	Summary         string            `json:"summary"`
	Skills          []string          `json:"skills"`
	Experience      []ExperienceEntry `json:"experience"`
	ExperienceRaw   string            `json:"experienceRaw,omitempty"`
	Education       string            `json:"education"`
	Projects        string            `json:"projects"`
	Certifications  string            `json:"certifications"`
	RawSections     map[string]string `json:"rawSections"`
	FullText        string            `json:"fullText"`
	YearsExperience int               `json:"yearsExperience"`
	SourceFormat    string            `json:"sourceFormat,omitempty"`
	JDTitle         string            `json:"jdTitle,omitempty"`
	Domain          string            `json:"domain,omitempty"`
}

// DefaultYearsExperience is assumed when a résumé does not state its years
const DefaultYearsExperience = 3

// CategoryScore is the score of one weighted ATS category
type CategoryScore struct {
	Score   int      `json:"score"`
	Max     int      `json:"max"`
	Matched []string `json:"matched"`
	Missing []string `json:"missing"`
}

// FormatScore is the structural completeness score
type FormatScore struct {
	Score int `json:"score"`
	Max   int `json:"max"`
}

// ATSBreakdown holds per-category scores. Categories with an empty JD-side
// list are nil.
type ATSBreakdown struct {
	TechnicalSkills *CategoryScore `json:"technicalSkills,omitempty"`
	Keywords        *CategoryScore `json:"keywords,omitempty"`
	SoftSkills      *CategoryScore `json:"softSkills,omitempty"`
	Format          FormatScore    `json:"format"`
}

// ATSReport is the ATS compatibility score
type ATSReport struct {
	Total     int          `json:"total"`
	Grade     string       `json:"grade"`
	Breakdown ATSBreakdown `json:"breakdown"`
}

// KeywordDiff lists JD keywords gained by optimization and those already present
type KeywordDiff struct {
	Added      []string `json:"added"`
	AlreadyHad []string `json:"alreadyHad"`
}

// ATSComparison reports the before and after scores of an optimization
type ATSComparison struct {
	Before    int          `json:"before"`
	After     int          `json:"after"`
	Grade     string       `json:"grade"`
	Breakdown ATSBreakdown `json:"breakdown"`
}

// OptimizeResult is the output of a full optimization pass
type OptimizeResult struct {
	Optimized        Resume        `json:"optimized"`
	ATS              ATSComparison `json:"ats"`
	KeywordsAdded    []string      `json:"keywordsAdded"`
	KeywordsExisting []string      `json:"keywordsExisting"`
	JDAnalysis       JDProfile     `json:"jdAnalysis"`
}

// BatchItem is one entry of a batch optimization. Exactly one of Result and
// Error is set.
type BatchItem struct {
	Index  int             `json:"index"`
	Result *OptimizeResult `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// BatchResult is the output of optimizing one résumé against several JDs
type BatchResult struct {
	Items []BatchItem `json:"items"`
}

// AnalyzeJobInput represents the input for JD analysis
type AnalyzeJobInput struct {
	JobDescription string `json:"jobDescription"`
}

// ScoreInput represents the input for ATS scoring
type ScoreInput struct {
	Resume         Resume `json:"resume"`
	JobDescription string `json:"jobDescription"`
}

// OptimizeInput represents the input for optimization
type OptimizeInput struct {
	Resume          Resume   `json:"resume"`
	JobDescriptions []string `json:"jobDescriptions"`
}
