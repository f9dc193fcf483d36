package core

// HelpArduinoMicro is the help block of the Arduino Micro layout. Existing
// host scripts match on it, so it must stay byte-for-byte stable.
const HelpArduinoMicro = "" +
	"Pin mapping:\r\n" +
	"              pin identifiers\r\n" +
	"                 |       |\r\n" +
	"                 v       v\r\n" +
	"            .-------- --------.\r\n" +
	"MOSI ---- 1 | B2 0   U   f B1 | 1 ---- SCK\r\n" +
	"RXLED --- 2 | B0 1       g B3 | 2 --- MISO\r\n" +
	"D1 ------ 3 | D3 2            | 3\r\n" +
	"D0 ------ 4 | D2 3            | 4\r\n" +
	"          5 |                 | 5\r\n" +
	"          6 |                 | 6\r\n" +
	"D2 ------ 7 | D1 4            | 7\r\n" +
	"D3 ------ 8 | D0 5            | 8\r\n" +
	"D4 ------ 9 | D4 6       h F0 | 9 ----- A5\r\n" +
	"D5 ----- 10 | C6 7       i F1 | 10 ---- A4\r\n" +
	"D6 ----- 11 | D7 8       j F4 | 11 ---- A3\r\n" +
	"D7 ----- 12 | E6 9       k F5 | 12 ---- A2\r\n" +
	"IO8 ---- 13 | B4 a       l F6 | 13 ---- A1\r\n" +
	"IO9 ---- 14 | B5 b       m F7 | 14 ---- A0\r\n" +
	"IO10 --- 15 | B6 c            | 15\r\n" +
	"IO11 --- 16 | B7 d  ___       | 16\r\n" +
	"IO12 --- 17 | D6 e |USB| n C7 | 17 -- IO13\r\n" +
	"            '------|___|------'\r\n" +
	"PD5 -- TXLED (Y)         o\r\n" +
	"PB0 -- RXLED (Y)         1\r\n" +
	"PC7 -- LED (G)           n\r\n" +
	"\r\n" +
	"List of operations:\r\n" +
	"   Lower-case 0..9 a..o --- select pin (see pin identifiers above)\r\n" +
	"   H --- Set pre-selected pin HIGH\r\n" +
	"   L --- Set pre-selected pin LOW\r\n" +
	"   t --- Set pre-selected pin LOW, wait 100 mS, HIGH\r\n" +
	"   T --- Set pre-selected pin HIGH, wait 100 mS, LOW\r\n" +
	"   u --- Set pre-selected pin LOW, wait 1000 mS, HIGH\r\n" +
	"   U --- Set pre-selected pin HIGH, wait 1000 mS, LOW\r\n" +
	"   ? --- Print this help\r\n" +
	"\r\n"

// HelpPico is the help block of the Raspberry Pi Pico layout
const HelpPico = "" +
	"Pin mapping (Raspberry Pi Pico):\r\n" +
	"              pin identifiers\r\n" +
	"                 |       |\r\n" +
	"                 v       v\r\n" +
	"            .-------|_|-------.\r\n" +
	"GP0 ----- 1 | A0 0     q D4 | 34 --- GP28\r\n" +
	"GP1 ----- 2 | A1 1     p D3 | 32 --- GP27\r\n" +
	"GP2 ----- 4 | A2 2     o D2 | 31 --- GP26\r\n" +
	"GP3 ----- 5 | A3 3     m C6 | 29 --- GP22\r\n" +
	"GP4 ----- 6 | A4 4     l C5 | 27 --- GP21\r\n" +
	"GP5 ----- 7 | A5 5     k C4 | 26 --- GP20\r\n" +
	"GP6 ----- 9 | A6 6     j C3 | 25 --- GP19\r\n" +
	"GP7 ---- 10 | A7 7     i C2 | 24 --- GP18\r\n" +
	"GP8 ---- 11 | B0 8     h C1 | 22 --- GP17\r\n" +
	"GP9 ---- 12 | B1 9     g C0 | 21 --- GP16\r\n" +
	"GP10 --- 14 | B2 a     f B7 | 20 --- GP15\r\n" +
	"GP11 --- 15 | B3 b     e B6 | 19 --- GP14\r\n" +
	"GP12 --- 16 | B4 c          |\r\n" +
	"GP13 --- 17 | B5 d          |\r\n" +
	"            '---------------'\r\n" +
	"GP25 -- LED (G)          n D1\r\n" +
	"\r\n" +
	"List of operations:\r\n" +
	"   Lower-case 0..9 a..q --- select pin (see pin identifiers above)\r\n" +
	helpOperations

// HelpMCP23017 is the help block of the MCP23017 port expander layout
const HelpMCP23017 = "" +
	"Pin mapping (MCP23017):\r\n" +
	"              pin identifiers\r\n" +
	"                 |       |\r\n" +
	"                 v       v\r\n" +
	"            .-------\\_/-------.\r\n" +
	"GPB0 ---- 1 | B0 8     7 A7 | 28 --- GPA7\r\n" +
	"GPB1 ---- 2 | B1 9     6 A6 | 27 --- GPA6\r\n" +
	"GPB2 ---- 3 | B2 a     5 A5 | 26 --- GPA5\r\n" +
	"GPB3 ---- 4 | B3 b     4 A4 | 25 --- GPA4\r\n" +
	"GPB4 ---- 5 | B4 c     3 A3 | 24 --- GPA3\r\n" +
	"GPB5 ---- 6 | B5 d     2 A2 | 23 --- GPA2\r\n" +
	"GPB6 ---- 7 | B6 e     1 A1 | 22 --- GPA1\r\n" +
	"GPB7 ---- 8 | B7 f     0 A0 | 21 --- GPA0\r\n" +
	"            '---------------'\r\n" +
	"\r\n" +
	"List of operations:\r\n" +
	"   Lower-case 0..9 a..f --- select pin (see pin identifiers above)\r\n" +
	helpOperations

const helpOperations = "" +
	"   H --- Set pre-selected pin HIGH\r\n" +
	"   L --- Set pre-selected pin LOW\r\n" +
	"   t --- Set pre-selected pin LOW, wait 100 mS, HIGH\r\n" +
	"   T --- Set pre-selected pin HIGH, wait 100 mS, LOW\r\n" +
	"   u --- Set pre-selected pin LOW, wait 1000 mS, HIGH\r\n" +
	"   U --- Set pre-selected pin HIGH, wait 1000 mS, LOW\r\n" +
	"   ? --- Print this help\r\n" +
	"\r\n"
