package feature

type Kind int

const (
	Float Kind = iota
	Int
)

func (k Kind) String() string {
	if k == Int {
		return "int"
	}

	return "float"
}

type Field struct {
	// Key is the JSON key of the field within a patient record.
	Key string
	// Kin is the numeric kind the raw value is coerced to.
	Kin Kind
	// Col is the column name of the field within the training dataset.
	Col string
}

// Fields is the fixed order of model inputs. The same order is used to build
// request vectors and training matrices.
var Fields = []Field{
	{Key: "age", Kin: Float, Col: "Age"},
	{Key: "gender", Kin: Int, Col: "Sex"},
	{Key: "total_bilirubin", Kin: Float, Col: "Bilirubin"},
	{Key: "alk_phos", Kin: Float, Col: "Alk_Phos"},
	{Key: "albumin", Kin: Float, Col: "Albumin"},
	{Key: "prothrombin", Kin: Float, Col: "Prothrombin"},
	{Key: "platelets", Kin: Float, Col: "Platelets"},
	{Key: "sgot", Kin: Float, Col: "SGOT"},
	{Key: "cholesterol", Kin: Float, Col: "Cholesterol"},
	{Key: "triglycerides", Kin: Float, Col: "Tryglicerides"},
	{Key: "copper", Kin: Float, Col: "Copper"},
	{Key: "ascites", Kin: Int, Col: "Ascites"},
	{Key: "hepatomegaly", Kin: Int, Col: "Hepatomegaly"},
	{Key: "spiders", Kin: Int, Col: "Spiders"},
	{Key: "edema", Kin: Int, Col: "Edema"},
}

// Categorical are the dataset columns holding string categories which must be
// label encoded before training.
var Categorical = []string{"Sex", "Ascites", "Hepatomegaly", "Spiders", "Edema"}

const (
	// Target is the dataset column holding the stage label.
	Target = "Stage"
	// Name is the optional JSON key holding the patient name.
	Name = "patient_name"
)

func Keys() []string {
	var key []string

	for _, f := range Fields {
		key = append(key, f.Key)
	}

	return key
}

func Columns() []string {
	var col []string

	for _, f := range Fields {
		col = append(col, f.Col)
	}

	return col
}
