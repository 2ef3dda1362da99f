package sdn

import (
	"testing"

	"github.com/aristath/sdnwatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sample mirrors the layout of the published sdn.csv, including the trailing SUB byte.
const sample = `36,"AEROCARIBBEAN AIRLINES",-0- ,"CUBA",-0- ,-0- ,-0- ,-0- ,-0- ,-0- ,-0- ,-0- 
173,"ANGLO-CARIBBEAN CO., LTD.",-0- ,"CUBA",-0- ,-0- ,-0- ,-0- ,-0- ,-0- ,-0- ,-0- 
306,"BANCO NACIONAL DE CUBA","individual","CUBA",-0- ,-0- ,-0- ,-0- ,-0- ,-0- ,-0- ,"a.k.a. 'BNC'."
` + "\x1a\n"

func TestParse_PublishedLayout(t *testing.T) {
	records := Parse(sample)

	require.Len(t, records, 3)
	assert.Equal(t, domain.EntityRecord{ID: "36", Name: "AEROCARIBBEAN AIRLINES", Type: "-0-", Program: "CUBA"}, records[0])
	assert.Equal(t, "ANGLO-CARIBBEAN CO., LTD.", records[1].Name, "embedded comma inside quotes is preserved")
	assert.Equal(t, "CUBA", records[1].Program)
	assert.Equal(t, "individual", records[2].Type)
}

func TestParse_DropsShortRows(t *testing.T) {
	raw := "X\n" +
		"1,Alice,individual\n" +
		"2,Bob,individual,SDN\n" +
		"\n" +
		"3,\"Acme, Inc.\",entity\n"

	records := Parse(raw)

	require.Len(t, records, 1)
	assert.Equal(t, "2", records[0].ID)
	assert.Equal(t, "Bob", records[0].Name)
}

func TestParse_EmbeddedCommaInQuotedName(t *testing.T) {
	records := Parse(`id,"Acme, Inc.",PERSON,SDN`)

	require.Len(t, records, 1)
	assert.Equal(t, domain.EntityRecord{ID: "id", Name: "Acme, Inc.", Type: "PERSON", Program: "SDN"}, records[0])
}

func TestParse_StripsQuotesAndWhitespace(t *testing.T) {
	records := Parse(` 7 ,  "  Spaced Name " , "vessel" ,"SDGT"` + "\n")

	require.Len(t, records, 1)
	assert.Equal(t, "7", records[0].ID)
	assert.Equal(t, "Spaced Name", records[0].Name)
	assert.Equal(t, "vessel", records[0].Type)
	assert.Equal(t, "SDGT", records[0].Program)
}

func TestParse_PreservesOrder(t *testing.T) {
	raw := "3,C,t,p\n1,A,t,p\n2,B,t,p\n"

	records := Parse(raw)

	require.Len(t, records, 3)
	assert.Equal(t, []string{"3", "1", "2"}, []string{records[0].ID, records[1].ID, records[2].ID})
}

func TestParse_Empty(t *testing.T) {
	records := Parse("")
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestParse_CRLFLineEndings(t *testing.T) {
	records := Parse("1,Alice,individual,SDN\r\n2,Bob,individual,SDN\r\n")

	require.Len(t, records, 2)
	assert.Equal(t, "SDN", records[0].Program)
	assert.Equal(t, "Bob", records[1].Name)
}

func TestParse_KeepsDuplicateIdentities(t *testing.T) {
	records := Parse("1,Alice,individual,SDN\n1,Alice,individual,SDN\n")
	assert.Len(t, records, 2)
}

func TestParse_UnclosedQuoteMergesNextRow(t *testing.T) {
	raw := "1,\"Acme,PERSON,SDN\n" +
		"2,\"Bob\",PERSON,SDN\n" +
		"3,\"Carol\",PERSON,SDN\n"

	records := Parse(raw)

	// Rows 1 and 2 collapse into one record; row 3 parses normally
	require.Len(t, records, 2)
	assert.Equal(t, "1", records[0].ID)
	assert.Contains(t, records[0].Name, "Acme")
	assert.Contains(t, records[0].Name, "Bob")
	assert.Equal(t, "PERSON", records[0].Type)
	assert.Equal(t, "SDN", records[0].Program)
	assert.Equal(t, domain.EntityRecord{ID: "3", Name: "Carol", Type: "PERSON", Program: "SDN"}, records[1])
}
