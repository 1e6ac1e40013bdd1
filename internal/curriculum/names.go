package curriculum

// ProperName is one entry in the fixed vocabulary of names that need audio
// independent of the curriculum document.
type ProperName struct {
	Script       string
	Romanization string
	Gloss        string
}

// ProperNames is the fixed, in-code list of proper names used throughout
// the curriculum. Order matters: it determines listing order, but not
// filenames, which are keyed by the script form.
var ProperNames = []ProperName{
	{Script: "小明", Romanization: "Xiǎomíng", Gloss: "common given name"},
	{Script: "小红", Romanization: "Xiǎohóng", Gloss: "common given name"},
	{Script: "王老师", Romanization: "Wáng lǎoshī", Gloss: "Teacher Wang"},
	{Script: "李华", Romanization: "Lǐ Huá", Gloss: "common full name"},
	{Script: "北京", Romanization: "Běijīng", Gloss: "Beijing"},
	{Script: "上海", Romanization: "Shànghǎi", Gloss: "Shanghai"},
}
