package openbook

// Quote lot prices are stored as integers scaled by this factor; four
// decimal places survive the division at the display boundary.
const QUOTE_LOTS_PER_UNIT = 10_000

const PRICE_DISPLAY_DECIMALS = 4

const BOOK_NODE_COUNT = 1024

const MAX_OPEN_ORDERS = 24
