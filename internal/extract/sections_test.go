package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/shartnoma/internal/model"
)

const cyrillicServiceContract = `ХИЗМАТ КЎРСАТИШ ШАРТНОМАСИ № 45/2024
Тошкент ш. 2024 йил 15 май

"ALFA SAVDO" МЧЖ (кейинги ўринларда «Буюртмачи» деб юритилади) ва "BETA SERVIS" МЧЖ (кейинги ўринларда «Ижрочи» деб юритилади) ушбу шартномани туздилар.

1. ШАРТНОМА ПРЕДМЕТИ
1.1. Ижрочи Буюртмачига бухгалтерия хизматларини кўрсатади.
1.2. Хизматлар ҳар ойда далолатнома билан топширилади.

2. ШАРТНОМА НАРХИ
2.1. Шартнома суммаси 12 000 000 (ўн икки миллион) сўмни ташкил этади.

3. ТОМОНЛАРНИНГ ЖАВОБГАРЛИГИ
3.1. Тўлов кечиктирилганда ҳар бир кун учун 0,1% пеня тўланади.

4. НИЗОЛАРНИ ҲАЛ ҚИЛИШ
Низолар иқтисодий судда кўрилади.

5. ТОМОНЛАРНИНГ РЕКВИЗИТЛАРИ
Буюртмачи: "ALFA SAVDO" МЧЖ, СТИР: 200640852
Ижрочи: "BETA SERVIS" МЧЖ, СТИР: 305 127 905
`

func TestParseSections_OrderedAndNonOverlapping(t *testing.T) {
	text := Normalize(cyrillicServiceContract)
	sections := ParseSections(text)
	require.NotEmpty(t, sections)

	for i := 1; i < len(sections); i++ {
		assert.Less(t, sections[i-1].StartPos, sections[i].StartPos, "sections must be ordered")
		assert.LessOrEqual(t, sections[i-1].EndPos, sections[i].StartPos, "sections must not overlap")
	}
	for _, s := range sections {
		assert.LessOrEqual(t, 0, s.StartPos)
		assert.LessOrEqual(t, s.StartPos, s.EndPos)
		assert.LessOrEqual(t, s.EndPos, len(text))
	}
}

func TestParseSections_Types(t *testing.T) {
	sections := ParseSections(Normalize(cyrillicServiceContract))

	var types []model.SectionType
	for _, s := range sections {
		types = append(types, s.Type)
	}
	assert.Equal(t, []model.SectionType{
		model.SectionHeader,
		model.SectionSubject,
		model.SectionPrice,
		model.SectionLiability,
		model.SectionDispute,
		model.SectionRequisites,
	}, types)

	assert.Equal(t, "Sarlavha", sections[0].Title)
	assert.Equal(t, "1", sections[1].Number)
	assert.Equal(t, "1. ШАРТНОМА ПРЕДМЕТИ", sections[1].Title)
}

func TestParseSections_Clauses(t *testing.T) {
	text := Normalize(cyrillicServiceContract)
	sections := ParseSections(text)

	var subject model.Section
	for _, s := range sections {
		if s.Type == model.SectionSubject {
			subject = s
		}
	}
	require.Len(t, subject.Clauses, 2)
	assert.Equal(t, "1.1", subject.Clauses[0].Number)
	assert.Equal(t, "1.2", subject.Clauses[1].Number)

	for _, c := range subject.Clauses {
		assert.Equal(t, c.Content, text[c.StartPos:c.EndPos], "clause offsets point into normalized text")
		assert.Equal(t, model.SectionSubject, c.SectionType)
	}
}

func TestParseSections_NoHeadings(t *testing.T) {
	text := "Бу оддий хат, унда бўлимлар йўқ."
	sections := ParseSections(text)

	require.Len(t, sections, 1)
	assert.Equal(t, model.SectionHeader, sections[0].Type)
	assert.Equal(t, text, sections[0].Content)
	assert.Equal(t, 0, sections[0].StartPos)
	assert.Equal(t, len(text), sections[0].EndPos)
}

func TestParseSections_Empty(t *testing.T) {
	assert.Empty(t, ParseSections(""))
	assert.Empty(t, ParseSections(" \n\t"))
}

func TestParseSections_PriorityOnSameOffset(t *testing.T) {
	// "ТОМОНЛАРНИНГ РЕКВИЗИТЛАРИ" also starts like a parties heading
	sections := ParseSections("ТОМОНЛАРНИНГ РЕКВИЗИТЛАРИ\nСТИР 200640852")
	require.Len(t, sections, 1)
	assert.Equal(t, model.SectionRequisites, sections[0].Type)
}

func TestParseSections_LabelledValueIsNotHeading(t *testing.T) {
	text := "1. ШАРТНОМА ПРЕДМЕТИ\nХизмат кўрсатиш.\nМуддат: 31.12.2024 гача\n"
	sections := ParseSections(text)

	require.Len(t, sections, 1)
	assert.Equal(t, model.SectionSubject, sections[0].Type)
	assert.True(t, strings.Contains(sections[0].Content, "Муддат: 31.12.2024"))
}

func TestParseSections_LatinHeadings(t *testing.T) {
	text := "1. Shartnoma predmeti\nIjrochi xizmat ko'rsatadi.\n2. Narx va to'lov tartibi\nJami 5 000 000 so'm."
	sections := ParseSections(text)

	require.Len(t, sections, 2)
	assert.Equal(t, model.SectionSubject, sections[0].Type)
	assert.Equal(t, model.SectionPrice, sections[1].Type)
}
