package classify

// Category is the rule category a classified error belongs to: one of the
// three diff-derived categories or one of the ten phonetic-attribute
// families.
type Category string

const (
	// CategoryHarakat marks a short-vowel (diacritic mark) error.
	CategoryHarakat Category = "harakat"

	// CategoryMadd marks an elongation-length error.
	CategoryMadd Category = "madd"

	// CategoryLetters marks a plain letter substitution, omission or
	// addition.
	CategoryLetters Category = "letters"

	// The ten attribute families, named as on the wire.
	CategoryHamsOrJahr       Category = "hams_or_jahr"
	CategoryShiddaOrRakhawa  Category = "shidda_or_rakhawa"
	CategoryTafkheemOrTaqeeq Category = "tafkheem_or_taqeeq"
	CategoryItbaq            Category = "itbaq"
	CategorySafeer           Category = "safeer"
	CategoryQalqla           Category = "qalqla"
	CategoryTikraar          Category = "tikraar"
	CategoryTafashie         Category = "tafashie"
	CategoryIstitala         Category = "istitala"
	CategoryGhonna           Category = "ghonna"
)

// Families lists the ten attribute-family categories in canonical order.
var Families = []Category{
	CategoryHamsOrJahr,
	CategoryShiddaOrRakhawa,
	CategoryTafkheemOrTaqeeq,
	CategoryItbaq,
	CategorySafeer,
	CategoryQalqla,
	CategoryTikraar,
	CategoryTafashie,
	CategoryIstitala,
	CategoryGhonna,
}

// familyLabels is the Arabic display label per attribute family.
var familyLabels = map[Category]string{
	CategoryHamsOrJahr:       "الهمس والجهر",
	CategoryShiddaOrRakhawa:  "الشدة والرخاوة",
	CategoryTafkheemOrTaqeeq: "التفخيم والترقيق",
	CategoryItbaq:            "الإطباق",
	CategorySafeer:           "الصفير",
	CategoryQalqla:           "القلقلة",
	CategoryTikraar:          "التكرار",
	CategoryTafashie:         "التفشي",
	CategoryIstitala:         "الاستطالة",
	CategoryGhonna:           "الغنة",
}

// categoryLabels covers the three diff-derived categories.
var categoryLabels = map[Category]string{
	CategoryHarakat: "الحركات",
	CategoryMadd:    "المدود",
	CategoryLetters: "الحروف",
}

// IsValid reports whether c is a recognised rule category.
func (c Category) IsValid() bool {
	if _, ok := categoryLabels[c]; ok {
		return true
	}
	_, ok := familyLabels[c]
	return ok
}

// IsFamily reports whether c is one of the ten attribute families.
func (c Category) IsFamily() bool {
	_, ok := familyLabels[c]
	return ok
}

// Label returns the Arabic display label for c. Every valid category has a
// label; an unknown category returns its raw wire name so nothing ever
// renders blank.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	if l, ok := familyLabels[c]; ok {
		return l
	}
	return string(c)
}

// ParseFamily maps a wire attribute name to its family category. ok is
// false for names outside the closed set.
func ParseFamily(name string) (Category, bool) {
	c := Category(name)
	if c.IsFamily() {
		return c, true
	}
	return "", false
}

// valueLabels is the exhaustive Arabic label table for the attribute-value
// enumerations. The per-family domains are closed; tests cover every value,
// so an unhandled value is a test-time failure rather than a silent
// pass-through.
var valueLabels = map[string]string{
	// hams_or_jahr
	"hams": "مهموس",
	"jahr": "مجهور",
	// shidda_or_rakhawa
	"shadeed": "شديد",
	"between": "بين الشدة والرخاوة",
	"rikhw":   "رخو",
	// tafkheem_or_taqeeq
	"mofakham": "مفخم",
	"moraqaq":  "مرقق",
	// itbaq
	"motbaq":   "مطبق",
	"monfateh": "منفتح",
	// safeer
	"safeer":    "مصفر",
	"no_safeer": "بدون صفير",
	// qalqla
	"moqalqal":     "مقلقل",
	"not_moqalqal": "غير مقلقل",
	// tikraar
	"mokarar":     "مكرر",
	"not_mokarar": "غير مكرر",
	// tafashie
	"motafashie":     "متفشي",
	"not_motafashie": "غير متفشي",
	// istitala
	"mostateel":     "مستطيل",
	"not_mostateel": "غير مستطيل",
	// ghonna
	"maghnoon":     "مغن",
	"not_maghnoon": "غير مغن",
}

// ValueLabel returns the Arabic label for an attribute enum value, falling
// back to the raw wire value for anything outside the closed domains.
func ValueLabel(value string) string {
	if l, ok := valueLabels[value]; ok {
		return l
	}
	return value
}
