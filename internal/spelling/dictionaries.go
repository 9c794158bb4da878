package spelling

// Correction tables map a lowercase misspelling to its correct form.
// Entries are matched against whole words only.

var uzbekCyrillicCorrections = map[string]string{
	"конуни": "қонуни", "конун": "қонун", "карор": "қарор",
	"кисмида": "қисмида", "кисм": "қисм", "куриш": "қуриш",
	"килиш": "қилиш", "килиб": "қилиб", "килади": "қилади",
	"килинган": "қилинган", "килинади": "қилинади", "кизиқиш": "қизиқиш",
	"киска": "қисқа", "кишлок": "қишлоқ", "кабул": "қабул",
	"кандай": "қандай", "качон": "қачон", "каерда": "қаерда",
	"канча": "қанча", "кайси": "қайси", "кайтиш": "қайтиш",
	"кайта": "қайта", "кайд": "қайд", "карз": "қарз",
	"кадр": "қадр", "кадам": "қадам", "калам": "қалам",
	"канот": "қанот", "кават": "қават", "катор": "қатор",
	"катик": "қатиқ", "каттик": "қаттиқ", "кахрамон": "қаҳрамон",
	"узбекистон": "ўзбекистон", "узбек": "ўзбек", "узи": "ўзи",
	"уз": "ўз", "урнида": "ўрнида", "урнатиш": "ўрнатиш",
	"урта": "ўрта", "укув": "ўқув", "укиш": "ўқиш",
	"укитувчи": "ўқитувчи", "уқувчи": "ўқувчи", "улка": "ўлка",
	"улим": "ўлим", "улик": "ўлик", "утин": "ўтин",
	"утмиш": "ўтмиш", "утиш": "ўтиш", "утказиш": "ўтказиш",
	"узгариш": "ўзгариш", "узгартириш": "ўзгартириш", "ухшаш": "ўхшаш",
	"уйлаш": "ўйлаш", "уйин": "ўйин", "хамда": "ҳамда",
	"хам": "ҳам", "хар": "ҳар", "хисоб": "ҳисоб",
	"хукумат": "ҳукумат", "хуқуқ": "ҳуқуқ", "хужжат": "ҳужжат",
	"хаёт": "ҳаёт", "хозир": "ҳозир", "холат": "ҳолат",
	"химоя": "ҳимоя", "хурмат": "ҳурмат", "хақиқат": "ҳақиқат",
	"хақ": "ҳақ", "хамма": "ҳамма", "шахри": "шаҳри",
	"шахар": "шаҳар", "махкама": "маҳкама", "махалла": "маҳалла",
	"рахбар": "раҳбар", "рахмат": "раҳмат", "мехнат": "меҳнат",
	"мухим": "муҳим", "мухр": "муҳр", "мухлат": "муҳлат",
	"сухбат": "суҳбат", "сахфа": "саҳифа", "бахс": "баҳс",
	"бахор": "баҳор", "бахо": "баҳо", "призидент": "президент",
	"призидентининг": "президентининг", "сентабр": "сентябр", "сентабрдаги": "сентябрдаги",
	"октабр": "октябр", "автойули": "автойўли", "йули": "йўли",
	"йул": "йўл", "йуловчи": "йўловчи", "йулак": "йўлак",
	"йук": "йўқ", "йуқ": "йўқ",
}

// Latin words with Cyrillic lookalikes inside them
var mixedScriptCorrections = map[string]string{
	"uchн": "uchun", "nimа": "nima", "qachоn": "qachon",
	"mеn": "men", "sеn": "sen", "sіz": "siz",
	"ulаr": "ular", "bіz": "biz", "еdi": "edi",
	"emаs": "emas", "balkі": "balki", "vа": "va",
	"yokі": "yoki", "agаr": "agar", "bormі": "bormi",
	"kerаk": "kerak", "mumkіn": "mumkin", "zаrur": "zarur",
	"yomоn": "yomon", "katа": "katta", "kichіk": "kichik",
}

var uzbekLatinCorrections = map[string]string{
	"xisoblanadi": "hisoblanadi", "xisoblash": "hisoblash", "xisob": "hisob",
	"xisobi": "hisobi", "xisoblab": "hisoblab", "xisobga": "hisobga",
	"xisobot": "hisobot", "xech": "hech", "xechkim": "hechkim",
	"xechnarsa": "hechnarsa", "xechqanday": "hechqanday", "xechqaysi": "hechqaysi",
	"xechqachon": "hechqachon", "xam": "ham", "xamda": "hamda",
	"xamkor": "hamkor", "xamkorlik": "hamkorlik", "xamisha": "hamisha",
	"xamma": "hamma", "xammasi": "hammasi", "xammamiz": "hammamiz",
	"xar": "har", "xarakat": "harakat", "xarakatlar": "harakatlar",
	"xarqanday": "harqanday", "xarkim": "harkim", "xatto": "hatto",
	"xattoki": "hattoki", "xozir": "hozir", "xozirgi": "hozirgi",
	"xozirda": "hozirda", "xozircha": "hozircha", "xozirlik": "hozirlik",
	"xolat": "holat", "xolati": "holati", "xolatda": "holatda",
	"xolatlar": "holatlar", "xukumat": "hukumat", "xukumati": "hukumati",
	"xuquq": "huquq", "xuquqi": "huquqi", "xuquqiy": "huquqiy",
	"xuquqlar": "huquqlar", "xujjat": "hujjat", "xujjati": "hujjati",
	"xujjatlar": "hujjatlar", "xujjatlash": "hujjatlash", "xayot": "hayot",
	"xayoti": "hayoti", "xayotiy": "hayotiy", "xis": "his",
	"xissiy": "hissiy", "xissa": "hissa", "xodisa": "hodisa",
	"xodisalar": "hodisalar", "xosil": "hosil", "xosili": "hosili",
	"xurmat": "hurmat", "xurmati": "hurmati", "xurmatli": "hurmatli",
	"ximoya": "himoya",
	"ximoyasi": "himoyasi", "xikoya": "hikoya", "xikoyalar": "hikoyalar",
	"xunarmand": "hunarmand", "xunar": "hunar", "xavola": "havola",
	"xavolasi": "havolasi", "xavo": "havo", "xavosi": "havosi",
	"xazil": "hazil", "xaqiqat": "haqiqat", "xaqiqiy": "haqiqiy",
	"xaq": "haq", "xaqi": "haqi", "xaqida": "haqida",
	"xaqli": "haqli", "xalok": "halok", "xalokat": "halokat",
	"xalol": "halol", "xammom": "hammom", "xarbiy": "harbiy",
	"xashamat": "hashamat", "xavas": "havas", "xavasi": "havasi",
	"xayvon": "hayvon", "xayvonlar": "hayvonlar", "xafsizlik": "xavfsizlik",
	"xaqorat": "haqorat", "jammiyati": "jamiyati", "jammiyat": "jamiyat",
	"kelisshuv": "kelishuv", "sharttoma": "shartnoma", "majjburiyat": "majburiyat",
	"qonunn": "qonun", "bosshliq": "boshliq", "ishshi": "ishi",
	"yilllik": "yillik", "uzbekstan": "uzbekiston", "o'zbekstan": "o'zbekiston",
	"texnlogiya": "texnologiya", "texnlogiyalar": "texnologiyalar", "texnlogiyalarini": "texnologiyalarini",
	"avtmatlash": "avtomatlashtirish", "samradorlik": "samaradorlik", "faoliyti": "faoliyati",
	"loyihlash": "loyihalash", "boshqrma": "boshqarma", "korxna": "korxona",
	"tashkilt": "tashkilot", "sharnoma": "shartnoma", "majburiat": "majburiyat",
	"javobgrlik": "javobgarlik", "buyurtmachy": "buyurtmachi", "ijrochy": "ijrochi",
	"beruvchy": "beruvchi", "yoq": "yo'q", "yok": "yo'q",
	"qaley": "qanday", "qalay": "qanday", "qandey": "qanday",
	"blan": "bilan", "bln": "bilan", "biln": "bilan",
	"lekn": "lekin", "lekni": "lekin", "lakn": "lekin",
	"keyn": "keyin", "keyni": "keyin", "kein": "keyin",
	"uchn": "uchun", "uchu": "uchun", "qilsh": "qilish",
	"qilih": "qilish", "qilis": "qilish", "borsh": "borish",
	"borsih": "borish", "kelsh": "kelish", "kelsih": "kelish",
	"olsh": "olish", "olsih": "olish", "bersh": "berish",
	"bersih": "berish", "nma": "nima", "nimaa": "nima",
	"qayrda": "qayerda", "qachn": "qachon", "mn": "men",
	"sn": "sen", "sz": "siz", "ulr": "ular",
	"bz": "biz", "ed": "edi", "ems": "emas",
	"shundy": "shunday", "shundey": "shunday", "shunay": "shunday",
	"bundy": "bunday", "bundey": "bunday", "bunay": "bunday",
	"albata": "albatta", "albatda": "albatta", "albbata": "albatta",
	"blki": "balki", "chnki": "chunki", "chunka": "chunki",
	"shunig": "shuning", "shunng": "shuning", "agr": "agar",
	"borm": "bormi", "kerk": "kerak", "mumkn": "mumkin",
	"zarr": "zarur", "yaxhi": "yaxshi", "yahshi": "yaxshi",
	"yaxsi": "yaxshi", "yomn": "yomon", "kata": "katta",
	"kichk": "kichik", "garb": "g'arb", "garbiy": "g'arbiy",
	"ogir": "og'ir", "ogirlik": "og'irlik", "togri": "to'g'ri",
	"togrilab": "to'g'rilab", "o`zbekiston": "o'zbekiston", "ko`prik": "ko'prik",
	"ko`prikqurilish": "ko'prikqurilish", "bo`lim": "bo'lim", "to`lov": "to'lov",
	"qo`shimcha": "qo'shimcha", "ma`lumot": "ma'lumot", "ta`minlash": "ta'minlash",
	"bo`yicha": "bo'yicha", "ko`rsatish": "ko'rsatish", "ko`chasi": "ko'chasi",
	"bog`iston": "bog'iston", "o`rniga": "o'rniga", "yo`l": "yo'l",
	"so`z": "so'z", "to`g`ri": "to'g'ri", "qo`l": "qo'l",
	"o`qish": "o'qish", "o`rganish": "o'rganish", "mo`ljal": "mo'ljal",
	"ko`p": "ko'p", "bo`sh": "bo'sh", "so`m": "so'm",
	"o`z": "o'z", "yo`q": "yo'q", "bo`ladi": "bo'ladi",
	"ko`rinish": "ko'rinish", "qo`shni": "qo'shni", "to`plam": "to'plam",
	"o`tkazgich": "o'tkazgich", "g`arb": "g'arb", "g`arbiy": "g'arbiy",
	"og`ir": "og'ir", "websayt": "veb-sayt",
}

var russianCorrections = map[string]string{
	"даговор": "договор", "обязательсво": "обязательство", "ответственость": "ответственность",
	"выполение": "выполнение", "предоставение": "предоставление", "соглашенние": "соглашение",
	"обеспеченние": "обеспечение", "исполнене": "исполнение", "стоимоть": "стоимость",
	"качесво": "качество", "гарантя": "гарантия",
}

// missingApostrophe maps Uzbek Latin words written without the o'/g' apostrophe
var missingApostrophe = map[string]string{
	"ozbekiston": "o'zbekiston", "koprik": "ko'prik", "bolim": "bo'lim",
	"tolov": "to'lov", "qoshimcha": "qo'shimcha", "malumot": "ma'lumot",
	"taminlash": "ta'minlash", "boyicha": "bo'yicha", "korsatish": "ko'rsatish",
	"kochasi": "ko'chasi", "orniga": "o'rniga", "yol": "yo'l",
	"soz": "so'z", "togri": "to'g'ri", "qol": "qo'l",
	"oqish": "o'qish", "organish": "o'rganish", "moljal": "mo'ljal",
	"kop": "ko'p", "som": "so'm",
	"yoq": "yo'q", "boladi": "bo'ladi", "korinish": "ko'rinish",
	"qoshni": "qo'shni", "toplam": "to'plam", "garb": "g'arb",
	"garbiy": "g'arbiy", "ogir": "og'ir", "bolib": "bo'lib",
	"bolgan": "bo'lgan", "bolsa": "bo'lsa", "bolishi": "bo'lishi",
	"korib": "ko'rib", "korish": "ko'rish", "kora": "ko'ra",
	"yoriqnoma": "yo'riqnoma",
}

// whitelist holds legal terms and abbreviations never sent to a backend
var whitelist = map[string]struct{}{
	"aj": {}, "akt": {}, "band": {}, "bank": {}, "bo'lim": {}, "bob": {}, "boshliq": {}, "buyurtmachi": {},
	"dalolatnoma": {}, "direktor": {}, "e-mail": {}, "f.i.sh.": {}, "faks": {}, "filial": {}, "foiz": {}, "h/r": {},
	"hisobchi": {}, "ijrochi": {}, "ilova": {}, "inn": {}, "jarima": {}, "k.k.": {}, "kafolat": {}, "mchj": {},
	"mfo": {}, "modda": {}, "muddat": {}, "ok": {}, "pasport": {}, "penya": {}, "pudratchi": {}, "qism": {},
	"qk": {}, "r.": {}, "rahbar": {}, "raqam": {}, "resp.": {}, "seriya": {}, "sh.": {}, "sh/h": {},
	"shartnoma": {}, "summa": {}, "t.": {}, "t.y.": {}, "tel.": {}, "to'lov": {}, "tomonlar": {}, "v.b.": {},
	"valyuta": {}, "vil.": {}, "xk": {}, "yatt": {}, "yurist": {}, "автомобил": {}, "автотранспорт": {}, "агентлик": {},
	"аж": {}, "акт": {}, "банд": {}, "банк": {}, "бино": {}, "боб": {}, "бошлиқ": {}, "буюртмачи": {},
	"бўлим": {}, "в.б.": {}, "вазир": {}, "валюта": {}, "вил.": {}, "вилоят": {}, "газ": {}, "далолатнома": {},
	"директор": {}, "жарима": {}, "ижрочи": {}, "илова": {}, "инн": {}, "иншоот": {}, "йўл": {}, "к.к.": {},
	"кафолат": {}, "кўприк": {}, "маҳалла": {}, "модда": {}, "муддат": {}, "мфо": {}, "мчж": {}, "паспорт": {},
	"пеня": {}, "президент": {}, "пудратчи": {}, "р.": {}, "рақам": {}, "раҳбар": {}, "респ.": {}, "республика": {},
	"серия": {}, "сув": {}, "сумма": {}, "т.": {}, "т.й.": {}, "тадбиркор": {}, "тартибдаги": {}, "томонлар": {},
	"транспорт": {}, "туман": {}, "тўлов": {}, "ф.и.ш.": {}, "филиал": {}, "фоиз": {}, "хк": {}, "ш.": {},
	"ш/ҳ": {}, "шартнома": {}, "шаҳар": {}, "электр": {}, "энергия": {}, "юрист": {}, "якка": {}, "қисм": {},
	"қишлоқ": {}, "қк": {}, "қурилиш": {}, "қўмита": {}, "ҳ/р": {}, "ҳисобчи": {}, "ҳоким": {},
}

// hWords are Uzbek Latin words spelled with h that OCR and typists often
// write with x
var hWords = map[string]struct{}{
	"hozir": {}, "hozirgi": {}, "hozirda": {}, "hozircha": {}, "hozirlik": {}, "hech": {}, "hechkim": {}, "hechqisi": {},
	"hechnarsa": {}, "hechqaysi": {}, "hechqanday": {}, "hechqachon": {}, "ham": {}, "hamda": {}, "hamkor": {}, "hamkorlik": {},
	"hamisha": {}, "hammasi": {}, "hamma": {}, "hammamiz": {}, "har": {}, "harakat": {}, "harakatlar": {}, "harakatlanish": {},
	"harkatga": {}, "harqanday": {}, "harkim": {}, "hatto": {}, "hattoki": {}, "holat": {}, "holati": {}, "holatda": {},
	"holatlar": {}, "holatini": {}, "hukumat": {}, "hukumati": {}, "huquq": {}, "huquqi": {}, "huquqiy": {}, "huquqlar": {},
	"huquqlarini": {}, "huquqshunoslik": {}, "hujjat": {}, "hujjati": {}, "hujjatlar": {}, "hujjatlarni": {}, "hujjatlash": {}, "hisob": {},
	"hisobi": {}, "hisoblab": {}, "hisoblash": {}, "hisoblanadi": {}, "hisoblanish": {}, "hisobga": {}, "hisobot": {}, "hayot": {},
	"hayoti": {}, "hayotiy": {}, "hayotda": {}, "his": {}, "hissiy": {}, "hissa": {}, "hissasi": {}, "hodisa": {},
	"hodisalar": {}, "hodisasi": {}, "hosil": {}, "hosili": {}, "hosilasi": {}, "hosilot": {}, "hurmat": {}, "hurmati": {},
	"hurmatli": {}, "himoya": {}, "himoyasi": {}, "himoyalash": {}, "himoyachi": {}, "hikoya": {}, "hikoyalar": {}, "hikoyasi": {},
	"hunarmand": {}, "hunar": {}, "hunari": {}, "havola": {}, "havolasi": {}, "havolalar": {}, "havo": {}, "havosi": {},
	"havoyi": {}, "hazil": {}, "hazilkash": {}, "haqiqat": {}, "haqiqiy": {}, "haqiqatan": {}, "haq": {}, "haqi": {},
	"haqida": {}, "haqli": {}, "haqsiz": {}, "halok": {}, "halokat": {}, "halol": {}, "halollik": {}, "hammom": {},
	"hammomxona": {}, "harbiy": {}, "harbiylar": {}, "hashamat": {}, "hashamatli": {}, "havas": {}, "havasi": {}, "havaskor": {},
	"havasmand": {}, "hayvon": {}, "hayvonlar": {}, "hayvonot": {}, "hisoblangan": {}, "hisoblovchi": {}, "hozirjavob": {}, "hidoyat": {},
	"hidoyatli": {},
}

// lookalikes maps Cyrillic letters to the Latin letters they resemble
var lookalikes = map[rune]rune{
	'а': 'a', 'е': 'e', 'о': 'o', 'р': 'p', 'с': 'c', 'у': 'y', 'х': 'x',
	'А': 'A', 'В': 'B', 'Е': 'E', 'К': 'K', 'М': 'M', 'Н': 'H', 'О': 'O',
	'Р': 'P', 'С': 'C', 'Т': 'T', 'Х': 'X',
}

var surnameSuffixes = []string{
	"ov", "ev", "ova", "eva", "vich", "ovna", "evna", "zoda", "iy",
	"ов", "ев", "ова", "ева", "вич", "овна", "евна", "зода", "ий",
}

// corrections merges every correction table; later tables win on conflict
var corrections = mergeTables(uzbekCyrillicCorrections, mixedScriptCorrections, uzbekLatinCorrections, russianCorrections)

func mergeTables(tables ...map[string]string) map[string]string {
	n := 0
	for _, t := range tables {
		n += len(t)
	}
	out := make(map[string]string, n)
	for _, t := range tables {
		for k, v := range t {
			out[k] = v
		}
	}
	return out
}
