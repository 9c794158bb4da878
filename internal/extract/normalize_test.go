package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ppiankov/shartnoma/internal/model"
)

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"1. ШАРТНОМА ПРЕДМЕТИ\nХизмат кўрсатиш.\n2. НАРХ\n1 000 000 сум.",
		"Хизмат кўрсатиш. 2. НАРХ 1 000 000 сум",
		"Томонлар ўз мажбуриятларини бажа-\n  ришади. ФОРС-МАЖОР ҳолатлари",
		"Shartnoma  predmeti:\r\nIjrochi o‘z zimmasiga oladi.\r\n3. NARX VA TO'LOV",
		"ШАPTHOMA ПPEДMETИ USD 100 INN 200640852",
		"O`zbekiston Respublikasi Fuqarolik kodeksi  ʻ ʼ ’",
		"a-\nb-\nc-\nd",
		"II. ТОМОНЛАРНИНГ ЖАВОБГАРЛИГИ 2. НАРХ A) ШАРТЛАР",
		"1. ШАРТНОМА ПРЕДМЕТИ\nХизмат кўрсатиш.\n2. HAPX\n\"BETA SERVIS\" МЧЖ, XX аср",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalize_Apostrophes(t *testing.T) {
	got := Normalize("O‘zbekiston o`z oʻrni toʼlov")
	assert.Equal(t, "O'zbekiston o'z o'rni to'lov", got)
}

func TestNormalize_LineEndingsAndSpaces(t *testing.T) {
	got := Normalize("a\r\nb\rc   d\t\te")
	assert.Equal(t, "a\nb\nc d e", got)
}

func TestNormalize_HyphenatedLineBreak(t *testing.T) {
	got := Normalize("мажбурият-\n  ларини бажаради")
	assert.Equal(t, "мажбуриятларини бажаради", got)
}

func TestNormalize_LookalikesInCyrillicWords(t *testing.T) {
	// "ШАРТНОМА" typed with Latin A, P, T, H, O, M
	got := Normalize("ШAPTHOMA ПРЕДМЕТИ ва шартлари, тўлов USD")
	assert.Contains(t, got, "ШАРТНОМА ПРЕДМЕТИ")
	assert.Contains(t, got, "USD", "purely Latin tokens stay Latin")
}

func TestNormalize_LookalikesSkippedInLatinText(t *testing.T) {
	in := "Shartnoma predmeti va narxi, ПРЕДМЕТ"
	assert.Equal(t, in, Normalize(in))
}

func TestNormalize_BreaksGluedHeadings(t *testing.T) {
	got := Normalize("Хизмат кўрсатиш. 2. НАРХ 1 000 000 сум")
	assert.Equal(t, "Хизмат кўрсатиш.\n2. НАРХ 1 000 000 сум", got)

	got = Normalize("ҳолатда тўланади. ФОРС-МАЖОР ҳолатлари")
	assert.Equal(t, "ҳолатда тўланади.\nФОРС-МАЖОР ҳолатлари", got)
}

func TestNormalize_KeepsNumberedHeadingTogether(t *testing.T) {
	in := "шартлар:\n4. ТОМОНЛАРНИНГ ЖАВОБГАРЛИГИ"
	assert.Equal(t, in, Normalize(in))
}

func TestNormalize_LookalikeOnlyWords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"header", "1. ШАРТНОМА ПРЕДМЕТИ\nХизмат кўрсатиш.\n2. HAPX\nНарх 1 000 000 сўм.", "2. НАРХ\n"},
		{"next to a Latin word", "Ижрочи \"BETA SERVIS\" МЧЖ хизмат кўрсатади ва ҳисобот беради.", "\"BETA SERVIS\""},
		{"codes with other Latin letters", "Тўлов USD ва INN бўйича, MChJ шаклида амалга оширилади.", "USD ва INN бўйича, MChJ"},
		{"single letter", "Илова A бўйича ҳужжатлар топширилади ва қабул қилинади.", "Илова A бўйича"},
		{"roman numeral", "XX асрда тузилган шартномалар қайта кўриб чиқилади.", "XX асрда"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, Normalize(tt.in), tt.want)
		})
	}
}

func TestParse_LookalikeHeaderKeepsSection(t *testing.T) {
	res := NewParser().Parse("1. ШАРТНОМА ПРЕДМЕТИ\nХизмат кўрсатиш.\n2. HAPX\n1 000 000 сўм.")
	var types []model.SectionType
	for _, s := range res.Sections {
		types = append(types, s.Type)
	}
	assert.Equal(t, []model.SectionType{model.SectionSubject, model.SectionPrice}, types)
}
