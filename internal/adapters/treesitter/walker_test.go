package treesitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/nglint/internal/domain/rules"
)

// walkTS parses TypeScript source and walks it with one structural rule.
func walkTS(t *testing.T, source string, check string) WalkResult {
	t.Helper()
	return walkFile(t, "test.ts", source, check)
}

func walkFile(t *testing.T, path, source, check string) WalkResult {
	t.Helper()
	p := NewParser()
	tree, lang, err := p.ParseToTree(path, []byte(source))
	require.NoError(t, err)
	require.NotNil(t, tree)
	defer tree.Close()

	rs := []rules.Rule{{
		ID:              check,
		Kind:            rules.RuleStructural,
		StructuralCheck: check,
	}}
	return WalkForRules(tree.RootNode(), []byte(source), lang, rs, WalkOptions{
		ComponentPrefix: "app",
		MaxMethodLines:  10,
	})
}

func findingLines(res WalkResult) []int {
	var lines []int
	for _, f := range res.Findings {
		lines = append(lines, f.Line)
	}
	return lines
}

func TestCheckObservableSuffix(t *testing.T) {
	src := `class CartComponent {
  items: Observable<Item[]>;
  total$: Observable<number>;
  selected: BehaviorSubject<string>;
  clicks: EventEmitter<void>;
}
`
	res := walkTS(t, src, "checkObservableSuffix")
	assert.Equal(t, []int{2, 4}, findingLines(res))
	assert.Equal(t, "items", res.Findings[0].Symbol)
	assert.Equal(t, "selected", res.Findings[1].Symbol)
}

func TestCheckNestedSubscribe(t *testing.T) {
	src := `class CartComponent {
  load() {
    this.user$.subscribe(user => {
      this.orders(user.id).subscribe(orders => {
        this.render(orders);
      });
    });
  }
}
`
	res := walkTS(t, src, "checkNestedSubscribe")
	require.Len(t, res.Findings, 1)
	assert.Equal(t, 4, res.Findings[0].Line)
}

func TestCheckNestedSubscribe_SiblingsAreFine(t *testing.T) {
	src := `class CartComponent {
  load() {
    this.a$.subscribe(v => this.setA(v));
    this.b$.subscribe(v => this.setB(v));
  }
}
`
	res := walkTS(t, src, "checkNestedSubscribe")
	assert.Empty(t, res.Findings)
}

func TestCheckSubscribeInConstructor(t *testing.T) {
	src := `class CartComponent {
  constructor(private store: Store) {
    this.store.select(selectItems).subscribe(v => this.items = v);
  }
  ngOnInit() {
    this.other$.subscribe(v => this.use(v));
  }
}
`
	res := walkTS(t, src, "checkSubscribeInConstructor")
	require.Len(t, res.Findings, 1)
	assert.Equal(t, 3, res.Findings[0].Line)
}

func TestCheckExposedSubject(t *testing.T) {
	src := `class CartService {
  refresh = new Subject<void>();
  public reload: Subject<void>;
  private internal$: Subject<void>;
  protected guarded$: Subject<void>;
}
`
	res := walkTS(t, src, "checkExposedSubject")
	// Only typed fields are checked; "refresh" has no annotation.
	assert.Equal(t, []int{3}, findingLines(res))
}

func TestCheckStateMutation(t *testing.T) {
	src := `const reducer = createReducer(initial,
  on(addItem, (state, { item }) => {
    state.items.push(item);
    state.count += 1;
    state.total = 0;
    return state;
  }),
);
`
	res := walkTS(t, src, "checkStateMutation")
	assert.Equal(t, []int{3, 4, 5}, findingLines(res))
}

func TestCheckStateMutation_SpreadIsClean(t *testing.T) {
	src := `const reducer = createReducer(initial,
  on(addItem, (state, { item }) => ({
    ...state,
    items: [...state.items, item],
  })),
);
`
	res := walkTS(t, src, "checkStateMutation")
	assert.Empty(t, res.Findings)
}

func TestCheckSelectorPrefix(t *testing.T) {
	src := `export const selectCartItems = createSelector(selectCart, c => c.items);
export const cartTotal = createSelector(selectCart, c => c.total);
export const featureState = createFeatureSelector<CartState>('cart');
export const unrelated = computeTotal(something);
`
	res := walkTS(t, src, "checkSelectorPrefix")
	assert.Equal(t, []int{2, 3}, findingLines(res))
	assert.Equal(t, "cartTotal", res.Findings[0].Symbol)
}

func TestCheckComponentSelector(t *testing.T) {
	src := `@Component({
  selector: 'cart',
  templateUrl: './cart.component.html',
})
export class CartComponent {}

@Component({
  selector: 'app-checkout',
})
export class CheckoutComponent {}

@Component({
  selector: '[appHighlight]',
})
export class HighlightComponent {}
`
	res := walkTS(t, src, "checkComponentSelector")
	// 'cart' lacks both the prefix and a second segment; the attribute
	// selector is exempt.
	assert.Equal(t, []int{2}, findingLines(res))
}

func TestCheckComponentSelector_WrongPrefix(t *testing.T) {
	src := `@Component({
  selector: 'shop-cart',
})
export class CartComponent {}
`
	res := walkTS(t, src, "checkComponentSelector")
	assert.Equal(t, []int{2}, findingLines(res))
}

func TestCheckLifecycleInterface(t *testing.T) {
	src := `export class CartComponent implements OnInit {
  ngOnInit() {}
  ngOnDestroy() {}
}
`
	res := walkTS(t, src, "checkLifecycleInterface")
	require.Len(t, res.Findings, 1)
	assert.Equal(t, 3, res.Findings[0].Line)
	assert.Equal(t, "ngOnDestroy", res.Findings[0].Symbol)
}

func TestCheckLongMethod(t *testing.T) {
	src := `class CartComponent {
  big() {
    a();
    a();
    a();
    a();
    a();
    a();
    a();
    a();
    a();
    a();
    a();
  }
  small() { a(); }
}
`
	res := walkTS(t, src, "checkLongMethod")
	require.Len(t, res.Findings, 1)
	assert.Equal(t, "big", res.Findings[0].Symbol)
}

func TestCheckMissingTeardown(t *testing.T) {
	leaky := `class LeakyComponent {
  ngOnInit() {
    this.items$.subscribe(v => this.items = v);
  }
}
`
	res := walkTS(t, leaky, "checkMissingTeardown")
	require.Len(t, res.Findings, 1)
	assert.Equal(t, "LeakyComponent", res.Findings[0].Symbol)

	clean := `class CleanComponent {
  ngOnInit() {
    this.items$.pipe(takeUntil(this.destroy$)).subscribe(v => this.items = v);
  }
}
`
	res = walkTS(t, clean, "checkMissingTeardown")
	assert.Empty(t, res.Findings)
}

func TestCheckNgForTrackBy(t *testing.T) {
	src := `<ul>
  <li *ngFor="let item of items">{{ item.name }}</li>
  <li *ngFor="let o of orders; trackBy: trackOrder">{{ o.id }}</li>
</ul>
`
	res := walkFile(t, "list.component.html", src, "checkNgForTrackBy")
	assert.Equal(t, []int{2}, findingLines(res))
}

func TestWalk_CollectsSymbols(t *testing.T) {
	src := `export class CartComponent {
  load() {
    this.fetch();
  }
}
function helper() {}
`
	res := walkTS(t, src, "checkLongMethod")

	names := make([]string, 0, len(res.Symbols))
	for _, s := range res.Symbols {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "CartComponent")
	assert.Contains(t, names, "load")
	assert.Contains(t, names, "helper")
}
