package token

import "testing"

func TestSpanStringSinglePoint(t *testing.T) {
	s := Span{Line: 3, Col: 5, EndLine: 3, EndCol: 5}
	if got, want := s.String(), "3:5"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestSpanStringRange(t *testing.T) {
	s := Span{Line: 1, Col: 1, EndLine: 1, EndCol: 9}
	if got, want := s.String(), "1:1-1:9"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestKindStringKnownAndUnknown(t *testing.T) {
	if got, want := Arrow.String(), "->"; got != want {
		t.Errorf("Arrow.String() = %q, want %q", got, want)
	}
	if got := Kind(9999).String(); got == "" {
		t.Errorf("unknown Kind.String() should not be empty, got %q", got)
	}
}

func TestIsSizedNumberSuffix(t *testing.T) {
	for _, k := range []Kind{I1, I8, I16, I32, I64, U8, U16, U32, U64, F32, F64} {
		if !IsSizedNumberSuffix(k) {
			t.Errorf("IsSizedNumberSuffix(%v) = false, want true", k)
		}
	}
	for _, k := range []Kind{Int, Float, Identifier, EOF} {
		if IsSizedNumberSuffix(k) {
			t.Errorf("IsSizedNumberSuffix(%v) = true, want false", k)
		}
	}
}

func TestKeywordsTableCoversReservedWords(t *testing.T) {
	want := map[string]Kind{
		"var": KwVar, "fun": KwFun, "return": KwReturn, "defer": KwDefer,
		"varargs": KwVarargs, "load": KwLoad, "import": KwImport,
	}
	for word, kind := range want {
		got, ok := Keywords[word]
		if !ok {
			t.Errorf("Keywords[%q] missing", word)
			continue
		}
		if got != kind {
			t.Errorf("Keywords[%q] = %v, want %v", word, got, kind)
		}
	}
}

func TestTokenStringTruncatesLongLexeme(t *testing.T) {
	long := "this-lexeme-is-definitely-over-twenty-bytes-long"
	tok := Token{Kind: String, Lexeme: long, Span: Span{Line: 1, Col: 1}}
	if got := tok.String(); len(got) == 0 {
		t.Fatalf("Token.String() returned empty string")
	}
}
