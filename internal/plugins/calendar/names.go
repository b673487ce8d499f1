package calendar

// CalendarKind names one of the two supported calendars.
type CalendarKind string

// Calendar kinds used to pick a month-name table.
const (
	KindGregorian CalendarKind = "gregorian"
	KindHijri     CalendarKind = "hijri"
)

// Supported label languages.
const (
	LangEnglish = "en"
	LangArabic  = "ar"
)

// monthNames holds the fixed month-name tables, indexed by calendar, then
// language, then zero-based month.
var monthNames = map[CalendarKind]map[string][12]string{
	KindGregorian: {
		LangEnglish: {"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December"},
		LangArabic: {"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو",
			"يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر"},
	},
	KindHijri: {
		LangEnglish: {"Muharram", "Safar", "Rabi' al-Awwal", "Rabi' al-Thani",
			"Jumada al-Ula", "Jumada al-Akhirah", "Rajab", "Sha'ban",
			"Ramadan", "Shawwal", "Dhu al-Qi'dah", "Dhu al-Hijjah"},
		LangArabic: {"محرم", "صفر", "ربيع الأول", "ربيع الآخر", "جمادى الأولى",
			"جمادى الآخرة", "رجب", "شعبان", "رمضان", "شوال", "ذو القعدة", "ذو الحجة"},
	},
}

// SupportedLang reports whether lang has month-name tables.
func SupportedLang(lang string) bool {
	_, ok := monthNames[KindGregorian][lang]
	return ok
}

// MonthName returns the label for a zero-indexed month. Unknown languages
// fall back to English; out-of-range months return "".
func MonthName(kind CalendarKind, lang string, month int) string {
	if month < 0 || month > 11 {
		return ""
	}
	tables, ok := monthNames[kind]
	if !ok {
		return ""
	}
	table, ok := tables[lang]
	if !ok {
		table = tables[LangEnglish]
	}
	return table[month]
}
