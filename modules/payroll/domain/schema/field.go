// Package schema defines the canonical payroll field dictionary shared by
// the import pipeline: the fixed set of store-schema fields that
// differently-worded spreadsheet headers map onto, and the typed values
// those fields carry.
package schema

import "github.com/iota-uz/payroll-sync/pkg/textnorm"

type FieldID string

type Domain int

// Text is first so the zero Value (absent text) stringifies to "".
const (
	Text Domain = iota
	Numeric
)

type Field struct {
	ID     FieldID
	Domain Domain
}

// Identity (text) fields. These are applied as direct profile updates and
// never appear in a diff set.
const (
	FieldUsername  FieldID = "username"
	FieldPassword  FieldID = "password"
	FieldJobNumber FieldID = "job_number"
	FieldFullName  FieldID = "full_name"
	FieldIBAN      FieldID = "iban"
)

// Descriptive text fields.
const (
	FieldJobTitle    FieldID = "job_title"
	FieldCertificate FieldID = "certificate"
	FieldSalaryGrade FieldID = "salary_grade"
	FieldSalaryStage FieldID = "salary_stage"
	FieldTaxStatus   FieldID = "tax_status"
)

// Numeric salary fields.
const (
	FieldNominalSalary           FieldID = "nominal_salary"
	FieldCertificateAllowance    FieldID = "certificate_allowance"
	FieldPositionAllowance       FieldID = "position_allowance"
	FieldEngineeringAllowance    FieldID = "engineering_allowance"
	FieldRiskAllowance           FieldID = "risk_allowance"
	FieldLegalAllowance          FieldID = "legal_allowance"
	FieldAdditional50Allowance   FieldID = "additional_50_allowance"
	FieldTransportAllowance      FieldID = "transport_allowance"
	FieldMaritalAllowance        FieldID = "marital_allowance"
	FieldChildrenAllowance       FieldID = "children_allowance"
	FieldGrossSalary             FieldID = "gross_salary"
	FieldLoanDeduction           FieldID = "loan_deduction"
	FieldOtherDeduction          FieldID = "other_deduction"
	FieldExecutionDeduction      FieldID = "execution_deduction"
	FieldTaxDeduction            FieldID = "tax_deduction"
	FieldRetirementDeduction     FieldID = "retirement_deduction"
	FieldSchoolStampDeduction    FieldID = "school_stamp_deduction"
	FieldSocialSecurityDeduction FieldID = "social_security_deduction"
	FieldNetSalary               FieldID = "net_salary"
)

// Dictionary is the immutable header-to-field registry built once at
// construction and injected into the mapper and coercer.
type Dictionary struct {
	fields     map[FieldID]Field
	byHeader   map[string]FieldID
	normalized map[string]FieldID
	anchors    []string
	identity   map[FieldID]struct{}
}

type alias struct {
	header string
	field  FieldID
}

func numericIDs() []FieldID {
	return []FieldID{
		FieldNominalSalary,
		FieldCertificateAllowance,
		FieldPositionAllowance,
		FieldEngineeringAllowance,
		FieldRiskAllowance,
		FieldLegalAllowance,
		FieldAdditional50Allowance,
		FieldTransportAllowance,
		FieldMaritalAllowance,
		FieldChildrenAllowance,
		FieldGrossSalary,
		FieldLoanDeduction,
		FieldOtherDeduction,
		FieldExecutionDeduction,
		FieldTaxDeduction,
		FieldRetirementDeduction,
		FieldSchoolStampDeduction,
		FieldSocialSecurityDeduction,
		FieldNetSalary,
	}
}

func textIDs() []FieldID {
	return []FieldID{
		FieldUsername,
		FieldPassword,
		FieldJobNumber,
		FieldFullName,
		FieldIBAN,
		FieldJobTitle,
		FieldCertificate,
		FieldSalaryGrade,
		FieldSalaryStage,
		FieldTaxStatus,
	}
}

func defaultAliases() []alias {
	return []alias{
		{"اسم المستخدم", FieldUsername},
		{"username", FieldUsername},
		{"كلمة المرور", FieldPassword},
		{"كلمة السر", FieldPassword},
		{"password", FieldPassword},
		{"الرقم الوظيفي", FieldJobNumber},
		{"رقم الوظيفة", FieldJobNumber},
		{"job number", FieldJobNumber},
		{"الاسم الكامل", FieldFullName},
		{"الاسم الرباعي", FieldFullName},
		{"الاسم", FieldFullName},
		{"full name", FieldFullName},
		{"رقم الايبان", FieldIBAN},
		{"الايبان", FieldIBAN},
		{"iban", FieldIBAN},
		{"العنوان الوظيفي", FieldJobTitle},
		{"job title", FieldJobTitle},
		{"الشهادة", FieldCertificate},
		{"certificate", FieldCertificate},
		{"الدرجة", FieldSalaryGrade},
		{"salary grade", FieldSalaryGrade},
		{"المرحلة", FieldSalaryStage},
		{"salary stage", FieldSalaryStage},
		{"الحالة الضريبية", FieldTaxStatus},
		{"tax status", FieldTaxStatus},
		{"الراتب الاسمي", FieldNominalSalary},
		{"nominal salary", FieldNominalSalary},
		{"مخصصات الشهادة", FieldCertificateAllowance},
		{"certificate allowance", FieldCertificateAllowance},
		{"مخصصات المنصب", FieldPositionAllowance},
		{"position allowance", FieldPositionAllowance},
		{"مخصصات هندسية", FieldEngineeringAllowance},
		{"المخصصات الهندسية", FieldEngineeringAllowance},
		{"engineering allowance", FieldEngineeringAllowance},
		{"مخصصات الخطورة", FieldRiskAllowance},
		{"risk allowance", FieldRiskAllowance},
		{"مخصصات قانونية", FieldLegalAllowance},
		{"المخصصات القانونية", FieldLegalAllowance},
		{"legal allowance", FieldLegalAllowance},
		{"مخصصات اضافية 50%", FieldAdditional50Allowance},
		{"مخصصات إضافية 50%", FieldAdditional50Allowance},
		{"additional 50% allowance", FieldAdditional50Allowance},
		{"مخصصات النقل", FieldTransportAllowance},
		{"transport allowance", FieldTransportAllowance},
		{"مخصصات الزوجية", FieldMaritalAllowance},
		{"marital allowance", FieldMaritalAllowance},
		{"مخصصات الاطفال", FieldChildrenAllowance},
		{"مخصصات الأطفال", FieldChildrenAllowance},
		{"children allowance", FieldChildrenAllowance},
		{"الراتب الكلي", FieldGrossSalary},
		{"اجمالي الراتب", FieldGrossSalary},
		{"gross salary", FieldGrossSalary},
		{"استقطاع السلفة", FieldLoanDeduction},
		{"السلفة", FieldLoanDeduction},
		{"loan deduction", FieldLoanDeduction},
		{"استقطاعات اخرى", FieldOtherDeduction},
		{"استقطاعات أخرى", FieldOtherDeduction},
		{"other deduction", FieldOtherDeduction},
		{"قطع التنفيذ", FieldExecutionDeduction},
		{"استقطاع التنفيذ", FieldExecutionDeduction},
		{"execution deduction", FieldExecutionDeduction},
		{"استقطاع الضريبة", FieldTaxDeduction},
		{"الضريبة", FieldTaxDeduction},
		{"tax deduction", FieldTaxDeduction},
		{"استقطاع التقاعد", FieldRetirementDeduction},
		{"التقاعد", FieldRetirementDeduction},
		{"retirement deduction", FieldRetirementDeduction},
		{"طابع المدارس", FieldSchoolStampDeduction},
		{"school stamp deduction", FieldSchoolStampDeduction},
		{"الضمان الاجتماعي", FieldSocialSecurityDeduction},
		{"social security deduction", FieldSocialSecurityDeduction},
		{"الراتب الصافي", FieldNetSalary},
		{"صافي الراتب", FieldNetSalary},
		{"net salary", FieldNetSalary},
	}
}

// DefaultDictionary builds the fixed field registry. The result is treated
// as read-only by every consumer.
func DefaultDictionary() *Dictionary {
	d := &Dictionary{
		fields:     make(map[FieldID]Field),
		byHeader:   make(map[string]FieldID),
		normalized: make(map[string]FieldID),
		identity:   make(map[FieldID]struct{}),
	}
	for _, id := range numericIDs() {
		d.fields[id] = Field{ID: id, Domain: Numeric}
	}
	for _, id := range textIDs() {
		d.fields[id] = Field{ID: id, Domain: Text}
	}
	for _, a := range defaultAliases() {
		d.byHeader[a.header] = a.field
		d.normalized[textnorm.Normalize(a.header)] = a.field
	}
	for _, id := range []FieldID{FieldUsername, FieldPassword, FieldJobNumber, FieldFullName, FieldIBAN} {
		d.identity[id] = struct{}{}
	}
	// Header rows are recognized by the presence of one of these columns.
	d.anchors = []string{"الاسم الكامل", "الاسم الرباعي", "الرقم الوظيفي", "full name", "job number"}
	return d
}

// Lookup resolves a raw header cell to a canonical field: exact alias first,
// then a normalized retry to absorb stray whitespace and letter variants.
func (d *Dictionary) Lookup(header string) (Field, bool) {
	if id, ok := d.byHeader[header]; ok {
		return d.fields[id], true
	}
	if id, ok := d.normalized[textnorm.Normalize(header)]; ok {
		return d.fields[id], true
	}
	return Field{}, false
}

func (d *Dictionary) Field(id FieldID) (Field, bool) {
	f, ok := d.fields[id]
	return f, ok
}

// IsIdentity reports whether id is an identity field (excluded from diffs,
// applied as direct profile updates).
func (d *Dictionary) IsIdentity(id FieldID) bool {
	_, ok := d.identity[id]
	return ok
}

// AnchorHeaders are the header texts whose presence marks a header row.
func (d *Dictionary) AnchorHeaders() []string {
	return d.anchors
}
