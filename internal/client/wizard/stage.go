package wizard

// Stage is one step of the composer.
type Stage int

const (
	StageDate Stage = iota + 1
	StageDescription
	StageHighlight
	StageBackground
	StageMedia
	StageLinks
	StagePreview
)

var stageNames = map[Stage]string{
	StageDate:        "date",
	StageDescription: "description",
	StageHighlight:   "highlight",
	StageBackground:  "background",
	StageMedia:       "media",
	StageLinks:       "links",
	StagePreview:     "preview",
}

func (s Stage) String() string {
	if n, ok := stageNames[s]; ok {
		return n
	}
	return "unknown"
}

// transition describes where a stage leads. A zero prev means leaving the
// stage backwards cancels the composer; a zero next means it is the last one.
// validate, when set, gates Advance.
type transition struct {
	next     Stage
	prev     Stage
	validate func(d *Draft) error
}

var transitions = map[Stage]transition{
	StageDate:        {next: StageDescription},
	StageDescription: {next: StageHighlight, prev: StageDate, validate: validateDraft},
	StageHighlight:   {next: StageBackground, prev: StageDescription},
	StageBackground:  {next: StageMedia, prev: StageHighlight},
	StageMedia:       {next: StageLinks, prev: StageBackground},
	StageLinks:       {next: StagePreview, prev: StageMedia},
	StagePreview:     {prev: StageLinks},
}
