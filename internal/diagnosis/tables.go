package diagnosis

// hints maps a Python exception name to a one-line Turkish explanation
// aimed at beginners.
var hints = map[string]string{
	"SyntaxError":         "Yazım hatası var. Komutun yapısını tekrar kontrol et.",
	"IndentationError":    "Girinti hatası var. Aynı bloktaki satırlar eşit boşlukla başlamalı.",
	"TabError":            "Sekme ve boşluk karışmış. Girintide tek bir yöntem kullan.",
	"NameError":           "Tanımlanmamış bir isim kullandın.",
	"TypeError":           "Veri türleri bu işlem için uyumlu değil.",
	"ValueError":          "Fonksiyona uygun olmayan bir değer gönderildi.",
	"ZeroDivisionError":   "Sıfıra bölme yapılamaz.",
	"IndexError":          "Listenin olmayan bir indeksine erişilmeye çalışıldı.",
	"KeyError":            "Sözlükte olmayan bir anahtar kullanıldı.",
	"AttributeError":      "Bu nesnede istenen özellik veya metot yok.",
	"ModuleNotFoundError": "İstenen modül bulunamadı.",
	"EOFError":            "input() verisi eksik görünüyor. Girdi kutusuna satır ekleyip tekrar dene.",
}

// phrases are applied in order as plain substring replacements over the
// exception detail. Order matters: longer phrases that contain shorter ones
// must come first.
var phrases = []struct {
	from, to string
}{
	{"invalid syntax", "geçersiz söz dizimi"},
	{"unexpected EOF while parsing", "kod beklenmeden bitti (parantez/tırnak eksik olabilir)"},
	{"unterminated string literal", "tırnak kapanmadan metin bitti"},
	{"expected ':'", "':' bekleniyor"},
	{"expected an indented block", "girintili bir blok bekleniyor"},
	{"unexpected indent", "beklenmeyen girinti"},
	{"unindent does not match any outer indentation level", "girinti seviyesi dış bloklarla eşleşmiyor"},
	{"division by zero", "sıfıra bölme"},
	{"list index out of range", "liste indeksi aralık dışında"},
	{"object is not callable", "nesne fonksiyon gibi çağrılamaz"},
	{"unsupported operand type(s)", "desteklenmeyen işlem türü"},
	{"No module named", "modül bulunamadı"},
	{"EOF when reading a line", "satır okunurken giriş verisi bitti"},
}
