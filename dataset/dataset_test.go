package dataset

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "N_Days,Status,Drug,Age,Sex,Ascites,Hepatomegaly,Spiders,Edema,Bilirubin,Cholesterol,Albumin,Copper,Alk_Phos,SGOT,Tryglicerides,Platelets,Prothrombin,Stage\n"

const sample = header +
	"2221,C,Placebo,18499,F,N,Y,N,N,0.5,149,4.04,227,598,52.70,57,256,9.9,1\n" +
	"1230,C,Placebo,19724,M,Y,N,Y,N,0.5,219,3.93,22,663,45.00,75,220,10.8,2\n" +
	"4184,C,Placebo,11839,F,N,N,N,S,0.5,320,3.54,51,1243,122.45,80,225,10,3\n"

func Test_Dataset_Read(t *testing.T) {
	tab, err := Read(strings.NewReader(sample))
	require.NoError(t, err)

	require.Len(t, tab.Row, 3)
	assert.Equal(t, []int{1, 2, 3}, tab.Lab)
	assert.Equal(t, []int{1, 2, 3}, tab.Classes())

	// age, sex, bilirubin, alk_phos, albumin, prothrombin, platelets, sgot,
	// cholesterol, tryglicerides, copper, ascites, hepatomegaly, spiders, edema
	assert.Equal(t, []float64{51, 0, 0.5, 598, 4.04, 9.9, 256, 52.7, 149, 57, 227, 0, 1, 0, 0}, tab.Row[0])
	assert.Equal(t, []float64{54, 1, 0.5, 663, 3.93, 10.8, 220, 45, 219, 75, 22, 1, 0, 1, 0}, tab.Row[1])
	assert.Equal(t, 1.0, tab.Row[2][14])

	assert.Equal(t, []string{"F", "M"}, tab.Enc["Sex"].Cla)
	assert.Equal(t, []string{"N", "S"}, tab.Enc["Edema"].Cla)
}

func Test_Dataset_Read_MissingColumn(t *testing.T) {
	_, err := Read(strings.NewReader("Age,Sex,Stage\n1,F,1\n"))
	assert.True(t, IsMissingColumn(err))
}

func Test_Dataset_Read_InvalidValue(t *testing.T) {
	bad := header + "2221,C,Placebo,18499,F,N,Y,N,N,abc,149,4.04,227,598,52.70,57,256,9.9,1\n"

	_, err := Read(strings.NewReader(bad))
	assert.True(t, IsInvalidValue(err))
}

func Test_Dataset_Split(t *testing.T) {
	var buf strings.Builder
	buf.WriteString(header)

	// 50 rows of stage 1, 30 of stage 2, 20 of stage 3.
	for i := 0; i < 100; i++ {
		sta := 1
		if i >= 50 {
			sta = 2
		}
		if i >= 80 {
			sta = 3
		}

		fmt.Fprintf(&buf, "1,C,Placebo,%d,F,N,Y,N,N,0.5,149,4.04,227,598,52.70,57,256,9.9,%d\n", 18000+i, sta)
	}

	tab, err := Read(strings.NewReader(buf.String()))
	require.NoError(t, err)

	tra, tes := tab.Split(0.2, 42)
	assert.Len(t, tra.Row, 80)
	assert.Len(t, tes.Row, 20)

	cnt := map[int]int{}
	for _, l := range tes.Lab {
		cnt[l]++
	}
	assert.Equal(t, map[int]int{1: 10, 2: 6, 3: 4}, cnt)

	again, _ := tab.Split(0.2, 42)
	assert.Equal(t, tra.Row, again.Row)
}

func Test_Dataset_CSV(t *testing.T) {
	var buf bytes.Buffer

	err := WriteCSV(&buf, [][]float64{{1.5, -2}}, []int{3})
	require.NoError(t, err)

	lin := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lin, 2)
	assert.True(t, strings.HasPrefix(lin[0], "Age,Sex,Bilirubin"))
	assert.True(t, strings.HasSuffix(lin[0], ",Stage"))
	assert.Equal(t, "1.5,-2,3", lin[1])

	lab, err := ReadLabels(strings.NewReader("pred\n1\n3.0\n2\n"))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 2}, lab)
}
