package extract

// innRegistry names organizations whose requisites OCR routinely mangles
var innRegistry = map[string]string{
	"200640852": "KO'PRIKQURILISH AJ",
	"200796358": "Қўприкқурилиш АЖ",
	"305127905": "SIFAT SITY STROY SSS",
	"303426835": "SHAXRUZA SHOXRUX VERSAL HAMKOR MChJ",
}

// LookupINN returns the registered organization name for a 9-digit INN
func LookupINN(inn string) (string, bool) {
	name, ok := innRegistry[inn]
	return name, ok
}
