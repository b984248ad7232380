package stage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Stage_Describe(t *testing.T) {
	testCases := []struct {
		cla int
		des string
		pre string
	}{
		{
			cla: 0,
			des: "No Cirrhosis.",
			pre: "Advise the patient to avoid alcohol, maintain a healthy diet, and monitor liver function if at risk.",
		},
		{
			cla: 1,
			des: "Early Cirrhosis (Stage 1).",
			pre: "Recommend salt restriction and regular liver function tests. Assess and manage underlying causes like hepatitis or fatty liver.",
		},
		{
			cla: 2,
			des: "Moderate Cirrhosis (Stage 2).",
			pre: "Start dietary modifications, monitor for ascites or varices, and schedule regular follow-ups. Evaluate for complications.",
		},
		{
			cla: 3,
			des: "Severe Cirrhosis (Stage 3).",
			pre: "Refer to a specialist. Monitor for liver failure symptoms and discuss transplant if needed. Provide intensive supportive care.",
		},
		{
			cla: 4,
			des: "Unknown Stage",
			pre: "No precautions available.",
		},
		{
			cla: -1,
			des: "Unknown Stage",
			pre: "No precautions available.",
		},
	}

	for _, tc := range testCases {
		des, pre := Describe(tc.cla)
		assert.Equal(t, tc.des, des)
		assert.Equal(t, tc.pre, pre)
	}
}

func Test_Stage_All(t *testing.T) {
	all := All()
	assert.Len(t, all, 4)
	assert.NotContains(t, all, UnknownDescription)
}
