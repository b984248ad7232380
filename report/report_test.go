package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xh3b4sd/cirrhosis/patient"
)

func form(t *testing.T, str string) *patient.Form {
	frm := patient.NewForm()
	require.NoError(t, json.Unmarshal([]byte(str), frm))
	return frm
}

func Test_Report_Rows(t *testing.T) {
	frm := form(t, `{"patient_name": "Jane Doe", "total_bilirubin": 1.50, "age": "52", "GENDER": 1, "ascites": true, "edema": null, "extra": {"a": 1}}`)

	exp := []Row{
		{Par: "Total bilirubin", Val: "1.5"},
		{Par: "Age", Val: "52"},
		{Par: "Gender", Val: "1"},
		{Par: "Ascites", Val: "True"},
		{Par: "Edema", Val: "None"},
		{Par: "Extra", Val: `{"a":1}`},
	}

	assert.Equal(t, exp, Rows(frm))
	assert.Equal(t, Rows(frm), Rows(frm))
	assert.Nil(t, Rows(nil))
}

func Test_Report_Number(t *testing.T) {
	testCases := []struct {
		num string
		str string
	}{
		{num: "52", str: "52"},
		{num: "-3", str: "-3"},
		{num: "1.50", str: "1.5"},
		{num: "1e2", str: "100.0"},
		{num: "3.0", str: "3.0"},
		{num: "0.0001", str: "0.0001"},
		{num: "0.00001", str: "1e-05"},
		{num: "1e15", str: "1000000000000000.0"},
		{num: "1e16", str: "1e+16"},
		{num: "1e400", str: "inf"},
		{num: "-1e400", str: "-inf"},
	}

	for i, tc := range testCases {
		t.Run(fmt.Sprintf("%03d", i), func(t *testing.T) {
			assert.Equal(t, tc.str, display(json.Number(tc.num)))
		})
	}
}

func Test_Report_Filename(t *testing.T) {
	testCases := []struct {
		res Result
		fil string
	}{
		{
			res: Result{},
			fil: "Unknown_Patient_Liver_Cirrhosis_Report.pdf",
		},
		{
			res: Result{Nam: "Unknown Patient"},
			fil: "Unknown_Patient_Liver_Cirrhosis_Report.pdf",
		},
		{
			res: Result{Nam: "Jane Doe"},
			fil: "Jane_Doe_Liver_Cirrhosis_Report.pdf",
		},
	}

	for i, tc := range testCases {
		t.Run(fmt.Sprintf("%03d", i), func(t *testing.T) {
			assert.Equal(t, tc.fil, Filename(tc.res))
		})
	}
}

func Test_Report_Render(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

	r := &Report{
		Now: func() time.Time { return now },
		Unc: true,
	}

	res := Result{
		Nam: "Jane Doe",
		Sta: "Moderate Cirrhosis (Stage 2).",
		Pre: "Start dietary modifications.",
		For: form(t, `{"patient_name": "Jane Doe", "total_bilirubin": 1.5}`),
	}

	byt, err := r.Render(res)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(byt, []byte("%PDF")))
	assert.Contains(t, string(byt), Title)
	assert.Contains(t, string(byt), "Jane Doe")
	assert.Contains(t, string(byt), "2025-03-14 , 09:26:53")
	assert.Contains(t, string(byt), "Total bilirubin")
	assert.Contains(t, string(byt), "Doctor's Signature")
}

func Test_Report_Render_Defaults(t *testing.T) {
	r := &Report{Unc: true}

	byt, err := r.Render(Result{})
	require.NoError(t, err)

	assert.Contains(t, string(byt), "Unknown Patient")
	assert.Contains(t, string(byt), "Unknown Stage")
	assert.Contains(t, string(byt), "No precautions available.")
}

func Test_Report_Render_AnyType(t *testing.T) {
	r := &Report{Unc: true}

	byt, err := r.Render(Result{Sta: json.Number("2.50"), Pre: true})
	require.NoError(t, err)

	assert.Contains(t, string(byt), "(2.5) Tj")
	assert.Contains(t, string(byt), "(True) Tj")
	assert.NotContains(t, string(byt), "Unknown Stage")

	byt, err = r.Render(Result{Sta: "", Pre: nil})
	require.NoError(t, err)

	assert.Contains(t, string(byt), "Unknown Stage")
	assert.Contains(t, string(byt), "No precautions available.")
}

func Test_Report_Render_Concurrent(t *testing.T) {
	r := &Report{Unc: true}

	var wg sync.WaitGroup
	out := make([][]byte, 8)
	for i := range out {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out[i], _ = r.Render(Result{Nam: fmt.Sprintf("Patient %d", i)})
		}(i)
	}
	wg.Wait()

	for i, byt := range out {
		assert.Contains(t, string(byt), fmt.Sprintf("Patient %d", i))
	}
}
